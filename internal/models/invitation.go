package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation statuses
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationCancelled = "cancelled"
	InvitationExpired   = "expired"
)

// Invitation is a pending offer for an email address to join an organization.
// It is resolved automatically the next time a matching email authenticates.
// A nil OrganizationID means the invitee is expected to create their own
// organization during onboarding.
type Invitation struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	Email          string        `gorm:"size:255;index;not null" json:"email"`
	OrganizationID *string       `gorm:"size:36;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Role           string        `gorm:"size:50;default:user" json:"role"`
	InvitedByID    string        `gorm:"size:36" json:"invited_by_id"`
	Status         string        `gorm:"size:20;default:pending;index" json:"status"`
	SentAt         time.Time     `json:"sent_at"`
	AcceptedAt     *time.Time    `json:"accepted_at"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Invitation) TableName() string { return "invitations" }

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.SentAt.IsZero() {
		i.SentAt = time.Now()
	}
	return nil
}
