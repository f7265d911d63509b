package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity types
const (
	ActivityTypeCall    = "call"
	ActivityTypeEmail   = "email"
	ActivityTypeMeeting = "meeting"
	ActivityTypeTask    = "task"
	ActivityTypeVisit   = "visit"
)

// Activity is a tenant-scoped task or interaction, optionally linked to a
// contact and/or deal.
type Activity struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string  `gorm:"size:36;index;not null" json:"organization_id"`
	ContactID      *string `gorm:"size:36;index" json:"contact_id"`
	DealID         *string `gorm:"size:36;index" json:"deal_id"`

	Type         string     `gorm:"size:50;default:task" json:"type"`
	Subject      string     `gorm:"size:255;not null" json:"subject"`
	Notes        string     `gorm:"type:text" json:"notes"`
	DueAt        *time.Time `gorm:"index" json:"due_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	AssignedToID string     `gorm:"size:36;index" json:"assigned_to_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Activity) TableName() string { return "activities" }

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
