// services/notify_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"suriparts-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotifyService pushes a WhatsApp (or SMS) message to the client contact when
// a quote is marked sent. It is best-effort: a delivery failure is logged and
// never fails the request that triggered it.
type NotifyService struct {
	client  *twilio.RestClient
	enabled bool
}

func NewNotifyService() *NotifyService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotifyService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		enabled: accountSid != "" && authToken != "",
	}
}

func (s *NotifyService) Enabled() bool {
	return s.enabled
}

// QuoteSent notifies the quote's client. WhatsApp is preferred when the client
// has a WhatsApp number, falling back to SMS on the plain phone number.
func (s *NotifyService) QuoteSent(quote models.Quote, client models.Client) {
	if !s.enabled {
		return
	}

	to := client.WhatsApp
	channel := "whatsapp"
	if to == "" {
		to = client.Phone
		channel = "sms"
	}
	if to == "" {
		log.Printf("quote %s: client %s has no contact number, skipping notification", quote.QuoteNumber, client.Company)
		return
	}

	message := fmt.Sprintf("Quote %s for %s is ready: %d item(s), total USD %s.",
		quote.QuoteNumber, client.Company, len(quote.Items), quote.Total.StringFixed(2))
	if quote.ValidUntil != nil {
		message += fmt.Sprintf(" Valid until %s.", quote.ValidUntil.Format("2006-01-02"))
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)

	if channel == "whatsapp" {
		if !strings.HasPrefix(to, "whatsapp:") {
			to = "whatsapp:" + to
		}
		params.SetTo(to)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetTo(to)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("quote %s: failed to notify %s: %v", quote.QuoteNumber, to, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("quote %s: notification sent to %s, SID: %s", quote.QuoteNumber, to, *resp.Sid)
	} else {
		log.Printf("quote %s: notification sent to %s", quote.QuoteNumber, to)
	}
}
