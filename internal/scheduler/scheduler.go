package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"remindly/internal/models"
	"remindly/internal/notify"
	"remindly/internal/store"

	"github.com/benbjohnson/clock"
)

// ReminderStore is the store surface the worker needs
type ReminderStore interface {
	DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error)
	OverdueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error)
	ClaimOutcome(ctx context.Context, id string, status models.ReminderStatus, sentAt time.Time) error
	CreateAcknowledgment(ctx context.Context, ack *models.Acknowledgment) error
}

// Worker drives reminder dispatch: every tick it scans for due and overdue
// PENDING reminders, fans deliveries out across the configured channels and
// moves each processed reminder to a terminal state exactly once. The
// worker keeps no state between ticks besides the schedule itself; the
// store is the only shared resource.
type Worker struct {
	store    ReminderStore
	adapters map[models.AckMethod]notify.Adapter
	clock    clock.Clock
	interval time.Duration

	// Serializes scan-and-dispatch cycles. A tick only starts after the
	// previous one has fully completed, so one reminder can never be
	// picked up twice before its status is written.
	mu sync.Mutex
}

// NewWorker creates a scheduler worker. Adapters are registered by their
// channel method; a member contact field with no matching adapter is
// counted as a failed channel.
func NewWorker(store ReminderStore, adapters []notify.Adapter, clk clock.Clock) *Worker {
	byMethod := make(map[models.AckMethod]notify.Adapter, len(adapters))
	for _, a := range adapters {
		byMethod[a.Method()] = a
	}
	return &Worker{
		store:    store,
		adapters: byMethod,
		clock:    clk,
		interval: time.Minute,
	}
}

// Start launches the tick loop in the background. The loop runs one tick
// immediately, then once per interval until the context is canceled.
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Worker) run(ctx context.Context) {
	log.Println("Reminder scheduler started")

	// Check immediately on start, then on every tick
	w.Tick(ctx)

	ticker := w.clock.Ticker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder scheduler stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs one scan-and-dispatch cycle. A scan read error aborts the whole
// tick; the next tick retries from scratch. Dispatch for different
// reminders runs concurrently, and the tick returns only after every
// reminder it picked up has resolved.
func (w *Worker) Tick(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()

	due, err := w.store.DueReminders(ctx, now)
	if err != nil {
		log.Printf("Error scanning due reminders, aborting tick: %v", err)
		return
	}
	overdue, err := w.store.OverdueReminders(ctx, now)
	if err != nil {
		log.Printf("Error scanning overdue reminders, aborting tick: %v", err)
		return
	}

	reminders := append(due, overdue...)
	if len(reminders) == 0 {
		return
	}

	var wg sync.WaitGroup
	for i := range reminders {
		wg.Add(1)
		go func(r *models.Reminder) {
			defer wg.Done()
			w.process(ctx, r)
		}(&reminders[i])
	}
	wg.Wait()
}

// process dispatches one reminder and commits its terminal state. If the
// status write fails the reminder stays PENDING on purpose: the next scan
// reconsiders it, accepting a possible duplicate send over silent loss.
func (w *Worker) process(ctx context.Context, r *models.Reminder) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Panic while dispatching reminder %s: %v", r.ID, rec)
			if err := w.store.ClaimOutcome(ctx, r.ID, models.ReminderFailed, w.clock.Now()); err != nil {
				log.Printf("Failed to mark reminder %s FAILED after panic: %v", r.ID, err)
			}
		}
	}()

	log.Printf("Sending reminder %s for event %q", r.ID, r.Event.Title)

	outcome := w.dispatch(ctx, r)

	status := models.ReminderFailed
	if outcome.Reached {
		status = models.ReminderSent
	}

	if err := w.store.ClaimOutcome(ctx, r.ID, status, w.clock.Now()); err != nil {
		if errors.Is(err, store.ErrNotPending) {
			log.Printf("Reminder %s already claimed elsewhere, skipping %s write", r.ID, status)
		} else {
			log.Printf("Failed to update reminder %s to %s, leaving it PENDING: %v", r.ID, status, err)
		}
		return
	}

	log.Printf("Reminder %s processed: status=%s members_reached=%d members_skipped=%d",
		r.ID, status, outcome.MembersReached, outcome.MembersSkipped)
}
