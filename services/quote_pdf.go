// services/quote_pdf.go
package services

import (
	"bytes"
	"fmt"
	"time"

	"suriparts-backend/models"

	"github.com/jung-kurt/gofpdf"
)

// QuotePDF renders a quote document for sending to the client.
func QuotePDF(q models.Quote, client models.Client) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quote "+q.QuoteNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Quotation")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s - %s", q.QuoteNumber, q.CreatedAt.Format("2006-01-02")))
	pdf.Ln(6)

	if client.Company != "" || client.Name != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Client: %s, %s (%s)", client.Company, client.Name, client.Country))
		pdf.Ln(6)
	}
	if q.ValidUntil != nil {
		pdf.Cell(0, 6, "Valid until: "+q.ValidUntil.Format("2006-01-02"))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(35, 7, "Part Number")
	pdf.Cell(70, 7, "Description")
	pdf.Cell(15, 7, "Cond")
	pdf.Cell(15, 7, "Qty")
	pdf.Cell(28, 7, "Unit Price")
	pdf.Cell(28, 7, "Total")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range q.Items {
		pdf.Cell(35, 6, trim(it.PartNumber, 20))
		pdf.Cell(70, 6, trim(it.Description, 42))
		pdf.Cell(15, 6, it.Condition)
		pdf.Cell(15, 6, fmt.Sprintf("%d", it.Quantity))
		pdf.Cell(28, 6, it.UnitPrice.StringFixed(2))
		pdf.Cell(28, 6, it.TotalPrice.StringFixed(2))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Subtotal: USD "+q.Subtotal.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(0, 7, "Tax: USD "+q.Tax.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(0, 7, "Total: USD "+q.Total.StringFixed(2))
	pdf.Ln(8)

	if q.Notes != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, "Notes: "+q.Notes, "", "L", false)
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 5, "Generated "+time.Now().Format(time.RFC3339))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
