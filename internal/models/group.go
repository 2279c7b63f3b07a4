package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group represents a set of people who receive reminders together
type Group struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	Description string        `gorm:"size:500" json:"description,omitempty"`
	Members     []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// GroupMember represents one recipient in a group. All three contact
// fields are optional; a member with none of them set is unreachable
// and is skipped by delivery.
type GroupMember struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GroupID   string    `gorm:"size:36;not null;index" json:"group_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Phone     string    `gorm:"size:30" json:"phone,omitempty"`
	WhatsApp  string    `gorm:"size:30" json:"whatsapp,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Reachable reports whether the member has at least one usable contact field
func (m *GroupMember) Reachable() bool {
	return m.Email != "" || m.Phone != "" || m.WhatsApp != ""
}

// CreateMemberRequest represents the data needed to add a member to a group
type CreateMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
}

// CreateGroupRequest represents the data needed to create a new group
type CreateGroupRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Members     []CreateMemberRequest `json:"members" binding:"omitempty,dive"`
}

// UpdateGroupRequest represents the editable fields of a group. Pointer
// fields distinguish "omitted" from "set to empty"; omitted fields are left
// unchanged.
type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateMemberRequest represents the editable fields of a group member.
// Omitted fields are left unchanged; contact edits take effect on the next
// dispatch, since the channel set is computed from whatever fields are
// present at scan time.
type UpdateMemberRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	WhatsApp *string `json:"whatsapp"`
}
