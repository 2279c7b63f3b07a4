package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderStatus represents the lifecycle state of a reminder
type ReminderStatus string

const (
	ReminderPending ReminderStatus = "PENDING"
	ReminderSent    ReminderStatus = "SENT"
	ReminderFailed  ReminderStatus = "FAILED"
)

// Reminder represents one scheduled notification for an event, aimed at a
// group. ReminderTime is computed once at creation (event start minus
// AdvanceMinutes) and is never recomputed if the event is edited later.
// Status moves PENDING -> SENT or PENDING -> FAILED exactly once; SENT and
// FAILED are terminal. Only the scheduler writes Status and SentAt.
type Reminder struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	EventID        string         `gorm:"size:36;not null;index" json:"event_id"`
	GroupID        string         `gorm:"size:36;not null;index" json:"group_id"`
	ReminderTime   time.Time      `gorm:"not null;index" json:"reminder_time"`
	AdvanceMinutes int            `gorm:"not null" json:"advance_minutes"`
	Message        string         `gorm:"size:1000" json:"message"`
	Status         ReminderStatus `gorm:"size:10;not null;default:PENDING;index" json:"status"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	Event          CalendarEvent  `gorm:"foreignKey:EventID" json:"event"`
	Group          Group          `gorm:"foreignKey:GroupID" json:"group"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = ReminderPending
	}
	return nil
}

// CreateReminderRequest represents the data needed to create a reminder
type CreateReminderRequest struct {
	EventID        string `json:"event_id" binding:"required"`
	GroupID        string `json:"group_id" binding:"required"`
	AdvanceMinutes int    `json:"advance_minutes" binding:"min=0"`
	Message        string `json:"message"`
}

// UpdateReminderRequest represents the fields an admin may edit while the
// reminder is still PENDING. Status and SentAt belong to the scheduler.
type UpdateReminderRequest struct {
	AdvanceMinutes *int    `json:"advance_minutes" binding:"omitempty,min=0"`
	Message        *string `json:"message"`
}
