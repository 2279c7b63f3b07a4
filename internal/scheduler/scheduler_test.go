package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"remindly/internal/models"
	"remindly/internal/notify"
	"remindly/internal/store"
)

// fakeStore is an in-memory ReminderStore with the same window, cap and
// conditional-claim semantics as the real one.
type fakeStore struct {
	mu        sync.Mutex
	reminders map[string]*models.Reminder
	acks      []models.Acknowledgment

	scanErr  error // returned by DueReminders when set
	claimErr error // returned by the next ClaimOutcome call, then cleared
}

func newFakeStore(reminders ...*models.Reminder) *fakeStore {
	s := &fakeStore{reminders: make(map[string]*models.Reminder)}
	for _, r := range reminders {
		s.reminders[r.ID] = r
	}
	return s
}

func (s *fakeStore) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	var out []models.Reminder
	for _, r := range s.reminders {
		if r.Status == models.ReminderPending &&
			!r.ReminderTime.Before(now) &&
			!r.ReminderTime.After(now.Add(store.DueWindow)) {
			out = append(out, *r)
		}
	}
	sortByTime(out)
	return out, nil
}

func (s *fakeStore) OverdueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Reminder
	for _, r := range s.reminders {
		if r.Status == models.ReminderPending && r.ReminderTime.Before(now) {
			out = append(out, *r)
		}
	}
	sortByTime(out)
	if len(out) > store.OverdueScanLimit {
		out = out[:store.OverdueScanLimit]
	}
	return out, nil
}

func (s *fakeStore) ClaimOutcome(ctx context.Context, id string, status models.ReminderStatus, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimErr != nil {
		err := s.claimErr
		s.claimErr = nil
		return err
	}
	r, ok := s.reminders[id]
	if !ok || r.Status != models.ReminderPending {
		return store.ErrNotPending
	}
	r.Status = status
	t := sentAt
	r.SentAt = &t
	return nil
}

func (s *fakeStore) CreateAcknowledgment(ctx context.Context, ack *models.Acknowledgment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acks = append(s.acks, *ack)
	return nil
}

func (s *fakeStore) reminder(id string) models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.reminders[id]
}

func (s *fakeStore) acknowledgments() []models.Acknowledgment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Acknowledgment, len(s.acks))
	copy(out, s.acks)
	return out
}

func sortByTime(rs []models.Reminder) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].ReminderTime.Before(rs[j].ReminderTime) })
}

// fakeAdapter records sends and succeeds or fails per configuration
type fakeAdapter struct {
	method models.AckMethod
	fail   bool
	reason string
	block  chan struct{} // when set, Send parks here until the channel closes

	mu    sync.Mutex
	calls []string // addresses sent to
}

func (a *fakeAdapter) Method() models.AckMethod { return a.method }

func (a *fakeAdapter) Send(ctx context.Context, to, subject, body, reminderID string) notify.Result {
	a.mu.Lock()
	a.calls = append(a.calls, to)
	a.mu.Unlock()
	if a.block != nil {
		<-a.block
	}
	if a.fail {
		reason := a.reason
		if reason == "" {
			reason = "provider rejected"
		}
		return notify.Result{Method: a.method, Reason: reason}
	}
	return notify.Result{Success: true, Method: a.method, ProviderID: "prov-" + to}
}

func (a *fakeAdapter) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

var errScanFailed = errors.New("scan failed")

func testReminder(reminderTime time.Time, members ...models.GroupMember) *models.Reminder {
	return &models.Reminder{
		ID:             "rem-1",
		EventID:        "evt-1",
		GroupID:        "grp-1",
		ReminderTime:   reminderTime,
		AdvanceMinutes: 15,
		Message:        "Standup soon",
		Status:         models.ReminderPending,
		Event: models.CalendarEvent{
			ID:        "evt-1",
			Title:     "Team standup",
			StartTime: reminderTime.Add(15 * time.Minute),
			Location:  "Room 4",
		},
		Group: models.Group{
			ID:      "grp-1",
			Name:    "Engineering",
			Members: members,
		},
	}
}
