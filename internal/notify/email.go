package notify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"remindly/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailAdapter delivers reminders through SendGrid
type EmailAdapter struct {
	client    *sendgrid.Client
	apiKey    string
	fromEmail string
	fromName  string
	appURL    string
}

// NewEmailAdapter creates the email adapter from environment configuration.
// Missing credentials are not an error here; sends report the problem as a
// failed outcome instead.
func NewEmailAdapter(appURL string) *EmailAdapter {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	return &EmailAdapter{
		client:    sendgrid.NewSendClient(apiKey),
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		appURL:    appURL,
	}
}

func (a *EmailAdapter) Method() models.AckMethod {
	return models.AckEmail
}

// Send delivers one reminder email with both HTML and plain-text bodies,
// each carrying the acknowledgment link
func (a *EmailAdapter) Send(ctx context.Context, to, subject, body, reminderID string) Result {
	if a.apiKey == "" || a.fromEmail == "" {
		return failure(models.AckEmail, "email service not configured")
	}

	link := AckLink(a.appURL, reminderID, models.AckEmail)

	from := mail.NewEmail(a.fromName, a.fromEmail)
	toAddr := mail.NewEmail("", to)

	plainContent := fmt.Sprintf("%s\n\n%s\n\nAcknowledge at: %s", subject, body, link)
	htmlContent := fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; padding: 20px;"><h2>%s</h2><p>%s</p><hr><p style="color: #666; font-size: 12px;"><a href="%s">Click here to acknowledge</a></p></div>`,
		subject, strings.ReplaceAll(body, "\n", "<br>"), link)

	message := mail.NewSingleEmail(from, subject, toAddr, plainContent, htmlContent)

	response, err := a.client.SendWithContext(ctx, message)
	if err != nil {
		return failure(models.AckEmail, fmt.Sprintf("failed to send email: %v", err))
	}
	if response.StatusCode >= 400 {
		return failure(models.AckEmail, fmt.Sprintf("sendgrid rejected the message: status %d", response.StatusCode))
	}

	messageID := ""
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	return success(models.AckEmail, messageID)
}
