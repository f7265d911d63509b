package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Per-organization roles
const (
	MembershipRoleUser  = "user"
	MembershipRoleAdmin = "admin"
)

// Membership grants a user access to an organization with a per-org role.
// The (user, organization) pair is unique; re-adding reactivates instead of
// duplicating. Removal is a soft deactivate so audit history survives.
type Membership struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	UserID         string        `gorm:"uniqueIndex:idx_user_org;size:36;not null" json:"user_id"`
	User           *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrganizationID string        `gorm:"uniqueIndex:idx_user_org;size:36;not null" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Role           string        `gorm:"size:50;default:user" json:"role"` // user, admin
	Active         bool          `gorm:"default:true" json:"active"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Membership) TableName() string { return "memberships" }

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MembershipView is the read model for member listings: membership state
// joined with the member's identity fields.
type MembershipView struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
	Active         bool   `json:"active"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
}
