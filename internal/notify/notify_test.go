package notify

import (
	"context"
	"errors"
	"testing"

	"remindly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAckLink(t *testing.T) {
	link := AckLink("http://localhost:8080", "rem-123", models.AckEmail)
	assert.Equal(t, "http://localhost:8080/acknowledge/rem-123?method=EMAIL", link)

	// Trailing slash on the base URL must not double up
	link = AckLink("https://remind.example.com/", "rem-123", models.AckSMS)
	assert.Equal(t, "https://remind.example.com/acknowledge/rem-123?method=SMS", link)
}

func TestEmailAdapterNotConfigured(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("SENDGRID_FROM_EMAIL", "")

	a := NewEmailAdapter("http://localhost:8080")
	res := a.Send(context.Background(), "ada@example.com", "Reminder", "body", "rem-1")

	assert.False(t, res.Success)
	assert.Equal(t, models.AckEmail, res.Method)
	assert.Contains(t, res.Reason, "not configured")
}

func TestSMSAdapterNotConfigured(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_PHONE_NUMBER", "")

	a := NewSMSAdapter("http://localhost:8080")
	res := a.Send(context.Background(), "+15550001111", "Reminder", "body", "rem-1")

	assert.False(t, res.Success)
	assert.Equal(t, models.AckSMS, res.Method)
	assert.Contains(t, res.Reason, "not configured")
}

type fakeChatSender struct {
	lastTo   string
	lastText string
	err      error
}

func (f *fakeChatSender) SendText(ctx context.Context, to, text string) (string, error) {
	f.lastTo = to
	f.lastText = text
	if f.err != nil {
		return "", f.err
	}
	return "wa-msg-1", nil
}

func TestWhatsAppAdapterNotReady(t *testing.T) {
	sender := &fakeChatSender{}
	a := NewWhatsAppAdapter(sender, func() bool { return false }, "http://localhost:8080")

	res := a.Send(context.Background(), "+15550001111", "Reminder", "body", "rem-1")

	assert.False(t, res.Success)
	assert.Contains(t, res.Reason, "not ready")
	assert.Empty(t, sender.lastTo, "a not-ready session must not attempt the send")
}

func TestWhatsAppAdapterSend(t *testing.T) {
	sender := &fakeChatSender{}
	a := NewWhatsAppAdapter(sender, func() bool { return true }, "http://localhost:8080")

	res := a.Send(context.Background(), "+15550001111", "Reminder", "body", "rem-1")

	require.True(t, res.Success)
	assert.Equal(t, "wa-msg-1", res.ProviderID)
	assert.Contains(t, sender.lastText, "body")
	assert.Contains(t, sender.lastText, "/acknowledge/rem-1?method=WHATSAPP")
}

func TestWhatsAppAdapterSendError(t *testing.T) {
	sender := &fakeChatSender{err: errors.New("socket closed")}
	a := NewWhatsAppAdapter(sender, func() bool { return true }, "http://localhost:8080")

	res := a.Send(context.Background(), "+15550001111", "Reminder", "body", "rem-1")

	assert.False(t, res.Success)
	assert.Contains(t, res.Reason, "socket closed")
}
