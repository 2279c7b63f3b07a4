package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"remindly/internal/models"
	"remindly/internal/notify"
)

// Outcome summarizes one dispatch attempt across a reminder's group
type Outcome struct {
	// Reached is true when at least one member got the reminder on at
	// least one channel. That single delivery is enough to mark the whole
	// reminder SENT, even if every other member was missed. Deliberate
	// product behavior, preserved from the start: the goal is "someone in
	// the group knows", not "everyone was told".
	Reached        bool
	MembersReached int
	MembersSkipped int
}

// target pairs a channel with the member address it should use
type target struct {
	method  models.AckMethod
	address string
}

// channelTargets computes the applicable channel set for a member from the
// contact fields that are present
func channelTargets(m *models.GroupMember) []target {
	var targets []target
	if m.Email != "" {
		targets = append(targets, target{models.AckEmail, m.Email})
	}
	if m.Phone != "" {
		targets = append(targets, target{models.AckSMS, m.Phone})
	}
	if m.WhatsApp != "" {
		targets = append(targets, target{models.AckWhatsApp, m.WhatsApp})
	}
	return targets
}

// dispatch fans one reminder out to every reachable member of its group.
// Members are handled concurrently, as are the channels of a single member;
// dispatch returns only after every attempted send has resolved, so the
// caller can commit the reminder's final state.
func (w *Worker) dispatch(ctx context.Context, r *models.Reminder) Outcome {
	subject := fmt.Sprintf("Reminder: %s", r.Event.Title)
	body := composeBody(r)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		outcome Outcome
	)

	for i := range r.Group.Members {
		member := &r.Group.Members[i]
		targets := channelTargets(member)
		if len(targets) == 0 {
			// No contact fields at all; nothing to attempt
			outcome.MembersSkipped++
			continue
		}

		wg.Add(1)
		go func(member *models.GroupMember, targets []target) {
			defer wg.Done()
			reached := w.sendToMember(ctx, r.ID, member, subject, body, targets)
			mu.Lock()
			if reached {
				outcome.MembersReached++
				outcome.Reached = true
			}
			mu.Unlock()
		}(member, targets)
	}
	wg.Wait()

	return outcome
}

// sendToMember attempts every applicable channel for one member. Channels
// run concurrently; the member counts as reached when any one of them
// succeeds. Each success records its acknowledgment immediately,
// independent of how the member's other channels fare.
func (w *Worker) sendToMember(ctx context.Context, reminderID string, member *models.GroupMember, subject, body string, targets []target) bool {
	results := make([]notify.Result, len(targets))

	var wg sync.WaitGroup
	for i, t := range targets {
		adapter, ok := w.adapters[t.method]
		if !ok {
			results[i] = notify.Result{Method: t.method, Reason: "no adapter registered for channel"}
			continue
		}

		wg.Add(1)
		go func(i int, t target, adapter notify.Adapter) {
			defer wg.Done()
			res := adapter.Send(ctx, t.address, subject, body, reminderID)
			if res.Success {
				w.recordDelivery(ctx, reminderID, member.ID, t.address, res)
			}
			results[i] = res
		}(i, t, adapter)
	}
	wg.Wait()

	reached := false
	for i, res := range results {
		if res.Success {
			reached = true
		} else {
			log.Printf("Delivery via %s to %s (member %s) failed: %s",
				res.Method, targets[i].address, member.ID, res.Reason)
		}
	}
	return reached
}

// recordDelivery appends the acknowledgment row attributing one successful
// channel delivery. A failed insert is logged and does not affect the
// delivery outcome.
func (w *Worker) recordDelivery(ctx context.Context, reminderID, memberID, address string, res notify.Result) {
	notes := fmt.Sprintf("%s sent to %s", res.Method, address)
	if res.ProviderID != "" {
		notes += fmt.Sprintf(". Provider ID: %s", res.ProviderID)
	}

	ack := &models.Acknowledgment{
		ReminderID:     reminderID,
		MemberID:       &memberID,
		Method:         res.Method,
		Notes:          notes,
		AcknowledgedAt: w.clock.Now(),
	}
	if err := w.store.CreateAcknowledgment(ctx, ack); err != nil {
		log.Printf("Failed to record %s acknowledgment for reminder %s: %v", res.Method, reminderID, err)
	}
}

// composeBody builds the shared message body: the reminder message followed
// by an event detail block
func composeBody(r *models.Reminder) string {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString("\n\nEvent Details:\n")
	b.WriteString("Title: " + r.Event.Title + "\n")
	if r.Event.Description != "" {
		b.WriteString("Description: " + r.Event.Description + "\n")
	}
	b.WriteString("Start Time: " + r.Event.StartTime.Format(time.RFC1123) + "\n")
	if r.Event.Location != "" {
		b.WriteString("Location: " + r.Event.Location + "\n")
	}
	b.WriteString(fmt.Sprintf("\nThis event starts in %d minute(s).", r.AdvanceMinutes))
	return b.String()
}
