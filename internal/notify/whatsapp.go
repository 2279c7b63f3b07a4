package notify

import (
	"context"
	"fmt"

	"remindly/internal/models"
)

// ChatSender is the part of a WhatsApp session the adapter needs. The
// concrete implementation wraps a whatsmeow client (pkg/whatsapp); tests
// substitute a fake.
type ChatSender interface {
	SendText(ctx context.Context, to, text string) (messageID string, err error)
}

// WhatsAppAdapter delivers reminders through an established WhatsApp
// session. The readiness check is injected rather than read from a global
// flag: until the session has finished pairing, sends fail with a not-ready
// outcome and are not retried within the tick.
type WhatsAppAdapter struct {
	client ChatSender
	ready  func() bool
	appURL string
}

// NewWhatsAppAdapter creates the WhatsApp adapter around a connected (or
// still pairing) session
func NewWhatsAppAdapter(client ChatSender, ready func() bool, appURL string) *WhatsAppAdapter {
	return &WhatsAppAdapter{
		client: client,
		ready:  ready,
		appURL: appURL,
	}
}

func (a *WhatsAppAdapter) Method() models.AckMethod {
	return models.AckWhatsApp
}

// Send delivers one reminder as a WhatsApp text message with the
// acknowledgment link appended
func (a *WhatsAppAdapter) Send(ctx context.Context, to, subject, body, reminderID string) Result {
	if a.client == nil || a.ready == nil || !a.ready() {
		return failure(models.AckWhatsApp, "WhatsApp session not ready")
	}

	link := AckLink(a.appURL, reminderID, models.AckWhatsApp)
	text := fmt.Sprintf("%s\n\nAcknowledge: %s", body, link)

	messageID, err := a.client.SendText(ctx, to, text)
	if err != nil {
		return failure(models.AckWhatsApp, fmt.Sprintf("failed to send WhatsApp message: %v", err))
	}
	return success(models.AckWhatsApp, messageID)
}
