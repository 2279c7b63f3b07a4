package notify

import (
	"context"
	"fmt"
	"os"

	"remindly/internal/models"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSAdapter delivers reminders through Twilio. Provider length limits are
// left to Twilio, which splits long bodies into message segments.
type SMSAdapter struct {
	client *twilio.RestClient
	from   string
	appURL string
}

// NewSMSAdapter creates the SMS adapter from environment configuration
func NewSMSAdapter(appURL string) *SMSAdapter {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")

	var client *twilio.RestClient
	if sid != "" && token != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: sid,
			Password: token,
		})
	}

	return &SMSAdapter{
		client: client,
		from:   from,
		appURL: appURL,
	}
}

func (a *SMSAdapter) Method() models.AckMethod {
	return models.AckSMS
}

// Send delivers one reminder as a plain-text SMS with the acknowledgment
// link appended. The subject is not used; SMS has no subject line.
func (a *SMSAdapter) Send(ctx context.Context, to, subject, body, reminderID string) Result {
	if a.client == nil || a.from == "" {
		return failure(models.AckSMS, "SMS service not configured")
	}

	link := AckLink(a.appURL, reminderID, models.AckSMS)

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(a.from)
	params.SetBody(fmt.Sprintf("%s\n\nAcknowledge: %s", body, link))

	message, err := a.client.Api.CreateMessage(params)
	if err != nil {
		return failure(models.AckSMS, fmt.Sprintf("failed to send SMS: %v", err))
	}

	sid := ""
	if message.Sid != nil {
		sid = *message.Sid
	}
	return success(models.AckSMS, sid)
}
