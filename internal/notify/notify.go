package notify

import (
	"context"

	"remindly/internal/models"
)

// Result is the outcome of one delivery attempt. Adapters never return
// errors: misconfiguration, provider rejection and transport failures all
// land here as a failed Result with a human-readable reason, and the
// fan-out treats them uniformly.
type Result struct {
	Success    bool
	Method     models.AckMethod
	ProviderID string // provider-assigned message identifier, set on success
	Reason     string // failure reason, set when Success is false
}

// Adapter is the uniform contract for one delivery channel. Send composes
// and delivers a message to a single address; the reminder ID is threaded
// through so the message can carry an acknowledgment link.
type Adapter interface {
	Method() models.AckMethod
	Send(ctx context.Context, to, subject, body, reminderID string) Result
}

func success(method models.AckMethod, providerID string) Result {
	return Result{Success: true, Method: method, ProviderID: providerID}
}

func failure(method models.AckMethod, reason string) Result {
	return Result{Method: method, Reason: reason}
}
