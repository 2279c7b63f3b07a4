package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AckMethod represents how a reminder delivery was confirmed
type AckMethod string

const (
	AckEmail    AckMethod = "EMAIL"
	AckSMS      AckMethod = "SMS"
	AckWhatsApp AckMethod = "WHATSAPP"
	AckWebApp   AckMethod = "WEB_APP"
	AckManual   AckMethod = "MANUAL"
)

// ValidAckMethod reports whether m is one of the known methods
func ValidAckMethod(m AckMethod) bool {
	switch m {
	case AckEmail, AckSMS, AckWhatsApp, AckWebApp, AckManual:
		return true
	}
	return false
}

// Acknowledgment records that a reminder reached someone: the scheduler
// writes one row per successful channel delivery, and recipients create
// their own rows through the web acknowledgment link or the API. Rows are
// append-only; nothing updates or deletes them.
type Acknowledgment struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ReminderID     string    `gorm:"size:36;not null;index" json:"reminder_id"`
	MemberID       *string   `gorm:"size:36" json:"member_id,omitempty"`
	Method         AckMethod `gorm:"size:10;not null" json:"method"`
	Notes          string    `gorm:"size:500" json:"notes,omitempty"`
	AcknowledgedAt time.Time `gorm:"not null" json:"acknowledged_at"`
}

func (a *Acknowledgment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AcknowledgedAt.IsZero() {
		a.AcknowledgedAt = time.Now()
	}
	return nil
}

// CreateAcknowledgmentRequest represents an explicit acknowledgment
// submitted through the API
type CreateAcknowledgmentRequest struct {
	ReminderID string    `json:"reminder_id" binding:"required"`
	MemberID   *string   `json:"member_id"`
	Method     AckMethod `json:"method" binding:"required"`
	Notes      string    `json:"notes"`
}
