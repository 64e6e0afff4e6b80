package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"suriparts-backend/config"
	"suriparts-backend/models"
	"suriparts-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupIntegration(t *testing.T) *gin.Engine {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires postgres, DB_URL)")
	}
	if os.Getenv("DB_URL") == "" {
		t.Skip("DB_URL not set")
	}
	t.Setenv("JWT_SECRET", "integration-test-secret")
	t.Setenv("QUOTE_NUMBER_YEAR", "2026")

	gin.SetMode(gin.TestMode)
	config.ConnectDB()
	config.DB.AutoMigrate(
		&models.User{},
		&models.Part{},
		&models.Client{},
		&models.Supplier{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.QuoteSequence{},
		&models.RFQ{},
		&models.ActivityLog{},
	)
	config.DB.Exec(`TRUNCATE users, parts, clients, suppliers, quotes, quote_items, quote_sequences, rfqs, activity_logs CASCADE`)

	return routes.SetupRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    fmt.Sprintf("tester-%s@suriparts.test", uuid.NewString()[:8]),
		"name":     "Integration Tester",
		"password": "correct-horse-battery",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("register response: %v", err)
	}
	return resp.Token
}

func createTestClient(t *testing.T, r *gin.Engine, token string) uuid.UUID {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/clients", token, map[string]interface{}{
		"name":    "Carlos Mendoza",
		"company": "Avianca Technical Services",
		"country": "Colombia",
		"email":   "cmendoza@avianca.test",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create client: status %d, body %s", w.Code, w.Body.String())
	}
	var client models.Client
	if err := json.Unmarshal(w.Body.Bytes(), &client); err != nil {
		t.Fatalf("client response: %v", err)
	}
	return client.ID
}

func TestCreateQuote_TotalsAndNumbering(t *testing.T) {
	r := setupIntegration(t)
	token := authToken(t, r)
	clientID := createTestClient(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": clientID,
		"notes":     "Net-30 terms.",
		"items": []map[string]interface{}{
			{"part_number": "101-384100-1", "description": "Brake Assembly", "condition": "NEW", "quantity": 2, "unit_price": "12500.00"},
			{"part_number": "MS21042L5", "description": "Self-Locking Nut", "condition": "NEW", "quantity": 100, "unit_price": "2.75"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create quote: status %d, body %s", w.Code, w.Body.String())
	}

	var quote models.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("quote response: %v", err)
	}

	if quote.QuoteNumber != "QT-2026-001" {
		t.Errorf("quote_number = %s, expected QT-2026-001", quote.QuoteNumber)
	}
	if quote.Status != models.QuoteStatusDraft {
		t.Errorf("status = %s, expected draft", quote.Status)
	}

	// Subtotal equals the independently computed sum of quantity x unit_price
	expected := decimal.RequireFromString("12500.00").Mul(decimal.NewFromInt(2)).
		Add(decimal.RequireFromString("2.75").Mul(decimal.NewFromInt(100)))
	if !quote.Subtotal.Equal(expected) {
		t.Errorf("subtotal = %s, expected %s", quote.Subtotal, expected)
	}
	if !quote.Total.Equal(quote.Subtotal.Add(quote.Tax)) {
		t.Errorf("total %s != subtotal %s + tax %s", quote.Total, quote.Subtotal, quote.Tax)
	}

	// Sequential creations increment by exactly one
	w = doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": clientID,
		"items":     []map[string]interface{}{{"part_number": "APS3200", "quantity": 1, "unit_price": "185000.00"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("second create: status %d, body %s", w.Code, w.Body.String())
	}
	var second models.Quote
	json.Unmarshal(w.Body.Bytes(), &second)
	if second.QuoteNumber != "QT-2026-002" {
		t.Errorf("second quote_number = %s, expected QT-2026-002", second.QuoteNumber)
	}
}

func TestCreateQuote_Validation(t *testing.T) {
	r := setupIntegration(t)
	token := authToken(t, r)
	clientID := createTestClient(t, r, token)

	// Missing client
	w := doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"items": []map[string]interface{}{{"part_number": "X", "quantity": 1, "unit_price": "1.00"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing client_id: status %d, expected 400", w.Code)
	}

	// Unknown client
	w = doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": uuid.New(),
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown client: status %d, expected 404", w.Code)
	}

	// Non-positive quantity
	w = doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": clientID,
		"items":     []map[string]interface{}{{"part_number": "X", "quantity": 0, "unit_price": "1.00"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero quantity: status %d, expected 400", w.Code)
	}

	// Negative unit price
	w = doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": clientID,
		"items":     []map[string]interface{}{{"part_number": "X", "quantity": 1, "unit_price": "-5.00"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative unit price: status %d, expected 400", w.Code)
	}
}

func TestCreateQuote_ConcurrentNumbering(t *testing.T) {
	r := setupIntegration(t)
	token := authToken(t, r)
	clientID := createTestClient(t, r, token)

	const n = 8
	var wg sync.WaitGroup
	numbers := make([]string, n)
	codes := make([]int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
				"client_id": clientID,
				"items":     []map[string]interface{}{{"part_number": "MA20A1T6", "quantity": 1, "unit_price": "12.50"}},
			})
			codes[i] = w.Code
			var q models.Quote
			json.Unmarshal(w.Body.Bytes(), &q)
			numbers[i] = q.QuoteNumber
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		if codes[i] != http.StatusCreated {
			t.Fatalf("request %d: status %d", i, codes[i])
		}
		if seen[numbers[i]] {
			t.Fatalf("duplicate quote number issued: %s", numbers[i])
		}
		seen[numbers[i]] = true
	}
}

func TestDuplicateQuote(t *testing.T) {
	r := setupIntegration(t)
	token := authToken(t, r)
	clientID := createTestClient(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": clientID,
		"notes":     "Original notes.",
		"items": []map[string]interface{}{
			{"part_number": "101-384100-1", "description": "Brake Assembly", "condition": "NEW", "quantity": 2, "unit_price": "12500.00"},
		},
	})
	var original models.Quote
	json.Unmarshal(w.Body.Bytes(), &original)

	w = doJSON(t, r, http.MethodPost, "/api/quotes/"+original.ID.String()+"/duplicate", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("duplicate: status %d, body %s", w.Code, w.Body.String())
	}
	var copied models.Quote
	json.Unmarshal(w.Body.Bytes(), &copied)

	if copied.QuoteNumber == original.QuoteNumber {
		t.Errorf("duplicate kept the source number %s", copied.QuoteNumber)
	}
	if copied.Status != models.QuoteStatusDraft {
		t.Errorf("duplicate status = %s, expected draft", copied.Status)
	}
	if !strings.HasPrefix(copied.Notes, "Duplicated from "+original.QuoteNumber+".") {
		t.Errorf("duplicate notes missing marker: %q", copied.Notes)
	}
	if copied.ValidUntil == nil {
		t.Error("duplicate valid_until not set")
	}
	if len(copied.Items) != len(original.Items) {
		t.Fatalf("duplicate has %d items, expected %d", len(copied.Items), len(original.Items))
	}
	for i := range copied.Items {
		if copied.Items[i].Quantity != original.Items[i].Quantity {
			t.Errorf("item %d quantity %d != %d", i, copied.Items[i].Quantity, original.Items[i].Quantity)
		}
		if !copied.Items[i].UnitPrice.Equal(original.Items[i].UnitPrice) {
			t.Errorf("item %d unit price %s != %s", i, copied.Items[i].UnitPrice, original.Items[i].UnitPrice)
		}
	}
	if !copied.Total.Equal(original.Total) {
		t.Errorf("duplicate total %s != %s", copied.Total, original.Total)
	}

	// Duplicating a missing quote is a 404 with no side effects
	var quotesBefore int64
	config.DB.Model(&models.Quote{}).Count(&quotesBefore)
	w = doJSON(t, r, http.MethodPost, "/api/quotes/"+uuid.NewString()+"/duplicate", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("duplicate missing quote: status %d, expected 404", w.Code)
	}
	var quotesAfter int64
	config.DB.Model(&models.Quote{}).Count(&quotesAfter)
	if quotesAfter != quotesBefore {
		t.Errorf("missing-source duplicate persisted a quote: %d -> %d", quotesBefore, quotesAfter)
	}
}

func TestDeleteQuote_Cascades(t *testing.T) {
	r := setupIntegration(t)
	token := authToken(t, r)
	clientID := createTestClient(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": clientID,
		"items": []map[string]interface{}{
			{"part_number": "A", "quantity": 1, "unit_price": "1.00"},
			{"part_number": "B", "quantity": 2, "unit_price": "2.00"},
			{"part_number": "C", "quantity": 3, "unit_price": "3.00"},
		},
	})
	var quote models.Quote
	json.Unmarshal(w.Body.Bytes(), &quote)

	var itemsBefore int64
	config.DB.Model(&models.QuoteItem{}).Where("quote_id = ?", quote.ID).Count(&itemsBefore)
	if itemsBefore != 3 {
		t.Fatalf("expected 3 items before delete, got %d", itemsBefore)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/quotes/"+quote.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", w.Code, w.Body.String())
	}

	var itemsAfter int64
	config.DB.Model(&models.QuoteItem{}).Where("quote_id = ?", quote.ID).Count(&itemsAfter)
	if itemsAfter != 0 {
		t.Errorf("expected 0 items after delete, got %d", itemsAfter)
	}

	w = doJSON(t, r, http.MethodGet, "/api/quotes/"+quote.ID.String(), token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("fetch after delete: status %d, expected 404", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/quotes/"+quote.ID.String(), token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, expected 404", w.Code)
	}
}

func TestUpdateQuote_StatusAudit(t *testing.T) {
	r := setupIntegration(t)
	token := authToken(t, r)
	clientID := createTestClient(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": clientID,
		"items":     []map[string]interface{}{{"part_number": "X", "quantity": 1, "unit_price": "100.00"}},
	})
	var quote models.Quote
	json.Unmarshal(w.Body.Bytes(), &quote)

	auditCount := func() int64 {
		var n int64
		config.DB.Model(&models.ActivityLog{}).
			Where("entity_id = ? AND action = ?", quote.ID, models.ActivityStatusChange).
			Count(&n)
		return n
	}

	w = doJSON(t, r, http.MethodPut, "/api/quotes/"+quote.ID.String(), token, map[string]interface{}{"status": "sent"})
	if w.Code != http.StatusOK {
		t.Fatalf("draft->sent: status %d, body %s", w.Code, w.Body.String())
	}
	if n := auditCount(); n != 1 {
		t.Errorf("after draft->sent: %d audit records, expected 1", n)
	}

	// Same-status update produces no new audit record
	w = doJSON(t, r, http.MethodPut, "/api/quotes/"+quote.ID.String(), token, map[string]interface{}{"status": "sent"})
	if w.Code != http.StatusOK {
		t.Fatalf("sent->sent: status %d", w.Code)
	}
	if n := auditCount(); n != 1 {
		t.Errorf("after sent->sent: %d audit records, expected 1", n)
	}

	w = doJSON(t, r, http.MethodPut, "/api/quotes/"+quote.ID.String(), token, map[string]interface{}{"status": "accepted"})
	if w.Code != http.StatusOK {
		t.Fatalf("sent->accepted: status %d", w.Code)
	}
	if n := auditCount(); n != 2 {
		t.Errorf("after sent->accepted: %d audit records, expected 2", n)
	}

	// No undo of an accepted quote
	w = doJSON(t, r, http.MethodPut, "/api/quotes/"+quote.ID.String(), token, map[string]interface{}{"status": "draft"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("accepted->draft: status %d, expected 400", w.Code)
	}
}

func TestUpdateQuote_ItemReplacement(t *testing.T) {
	r := setupIntegration(t)
	token := authToken(t, r)
	clientID := createTestClient(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
		"client_id": clientID,
		"items": []map[string]interface{}{
			{"part_number": "A", "quantity": 1, "unit_price": "10.00"},
			{"part_number": "B", "quantity": 1, "unit_price": "20.00"},
		},
	})
	var quote models.Quote
	json.Unmarshal(w.Body.Bytes(), &quote)

	w = doJSON(t, r, http.MethodPut, "/api/quotes/"+quote.ID.String(), token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"part_number": "C", "quantity": 4, "unit_price": "7.50"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update items: status %d, body %s", w.Code, w.Body.String())
	}
	var updated models.Quote
	json.Unmarshal(w.Body.Bytes(), &updated)

	if len(updated.Items) != 1 || updated.Items[0].PartNumber != "C" {
		t.Fatalf("items not replaced wholesale: %+v", updated.Items)
	}
	if updated.Subtotal.StringFixed(2) != "30.00" {
		t.Errorf("subtotal = %s, expected 30.00", updated.Subtotal.StringFixed(2))
	}

	var rows int64
	config.DB.Model(&models.QuoteItem{}).Where("quote_id = ?", quote.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("%d item rows persisted, expected 1", rows)
	}
}

func TestGetQuotes_StatusFilter(t *testing.T) {
	r := setupIntegration(t)
	token := authToken(t, r)
	clientID := createTestClient(t, r, token)

	for i := 0; i < 3; i++ {
		doJSON(t, r, http.MethodPost, "/api/quotes", token, map[string]interface{}{
			"client_id": clientID,
			"items":     []map[string]interface{}{{"part_number": "X", "quantity": 1, "unit_price": "1.00"}},
		})
	}
	// Move one quote to sent
	var sent models.Quote
	config.DB.Order("created_at ASC").First(&sent)
	doJSON(t, r, http.MethodPut, "/api/quotes/"+sent.ID.String(), token, map[string]interface{}{"status": "sent"})

	w := doJSON(t, r, http.MethodGet, "/api/quotes?status=draft", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("list response: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("draft filter returned %d quotes, expected 2", len(rows))
	}
	for _, row := range rows {
		if row["status"] != "draft" {
			t.Errorf("draft filter returned status %v", row["status"])
		}
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	r := setupIntegration(t)

	w := doJSON(t, r, http.MethodGet, "/api/quotes", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list: status %d, expected 401", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health: status %d, expected 200", w.Code)
	}
}
