package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact statuses (lead lifecycle)
const (
	ContactStatusLead     = "lead"
	ContactStatusActive   = "active"
	ContactStatusCustomer = "customer"
	ContactStatusLost     = "lost"
)

// Contact is a tenant-scoped lead/customer record. OrganizationID is always
// stamped server-side from the request's effective organization.
type Contact struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string `gorm:"size:36;index;not null" json:"organization_id"`

	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	Email     string `gorm:"size:255;index" json:"email"`
	Phone     string `gorm:"size:50" json:"phone"`
	Company   string `gorm:"size:255" json:"company"`
	Position  string `gorm:"size:100" json:"position"`
	Source    string `gorm:"size:100" json:"source"` // website, referral, fair, walk_in, ...
	Status    string `gorm:"size:50;default:lead;index" json:"status"`
	Notes     string `gorm:"type:text" json:"notes"`
	OwnerID   string `gorm:"size:36;index" json:"owner_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Contact) TableName() string { return "contacts" }

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
