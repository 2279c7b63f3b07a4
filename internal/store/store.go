package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remindly/internal/models"

	"gorm.io/gorm"
)

// ErrNotPending is returned when a terminal-state write finds the reminder
// already claimed by another processing attempt.
var ErrNotPending = errors.New("reminder is not pending")

const (
	// DueWindow is how far ahead one scan looks for reminders coming due.
	// It matches the scheduler's tick interval so nothing falls between
	// two consecutive scans.
	DueWindow = time.Minute

	// OverdueScanLimit caps how many missed reminders one scan reclaims,
	// so a long outage does not turn into a delivery storm on recovery.
	OverdueScanLimit = 10
)

// ReminderStore provides the scheduler's view of the database: due-reminder
// scans, the atomic claim of a reminder's terminal state, and acknowledgment
// inserts.
type ReminderStore struct {
	db *gorm.DB
}

// New creates a reminder store backed by the given database handle
func New(db *gorm.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

// DueReminders returns PENDING reminders whose reminder time falls inside
// [now, now+DueWindow], oldest first. Each result carries its event and its
// group with members so dispatch needs no further reads.
func (s *ReminderStore) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("Group.Members").
		Where("status = ? AND reminder_time >= ? AND reminder_time <= ?",
			models.ReminderPending, now, now.Add(DueWindow)).
		Order("reminder_time asc").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan due reminders: %w", err)
	}
	return reminders, nil
}

// OverdueReminders returns PENDING reminders whose reminder time has already
// passed, oldest first, at most OverdueScanLimit per call. These are
// reminders that were missed entirely, e.g. while the service was down.
func (s *ReminderStore) OverdueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("Group.Members").
		Where("status = ? AND reminder_time < ?", models.ReminderPending, now).
		Order("reminder_time asc").
		Limit(OverdueScanLimit).
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan overdue reminders: %w", err)
	}
	return reminders, nil
}

// ClaimOutcome moves a reminder from PENDING to the given terminal state and
// stamps SentAt. The update is conditional on the row still being PENDING,
// which makes the claim atomic even when more than one process scans the
// same table: exactly one caller wins, the rest get ErrNotPending.
func (s *ReminderStore) ClaimOutcome(ctx context.Context, id string, status models.ReminderStatus, sentAt time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ? AND status = ?", id, models.ReminderPending).
		Updates(map[string]interface{}{
			"status":  status,
			"sent_at": sentAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update reminder %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

// CreateAcknowledgment appends one acknowledgment row. Every channel records
// its delivery through this single helper; the web and manual paths insert
// through the API instead and the two never conflict.
func (s *ReminderStore) CreateAcknowledgment(ctx context.Context, ack *models.Acknowledgment) error {
	if err := s.db.WithContext(ctx).Create(ack).Error; err != nil {
		return fmt.Errorf("failed to create acknowledgment: %w", err)
	}
	return nil
}
