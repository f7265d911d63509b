package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Global roles. Per-organization roles live on Membership.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Auth providers
const (
	AuthTypeLocal  = "local"
	AuthTypeGoogle = "google"
)

// User represents an account. Accounts are never hard-deleted; removal is
// modeled by deactivating memberships.
type User struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	Email     *string `gorm:"uniqueIndex;size:255" json:"email"` // nullable: OAuth accounts may arrive without one
	FirstName string  `gorm:"size:100" json:"first_name"`
	LastName  string  `gorm:"size:100" json:"last_name"`
	Password  string  `gorm:"size:255" json:"-"` // bcrypt hash, empty for OAuth-only accounts
	Role      string  `gorm:"size:50;default:user" json:"role"`
	AuthType  string  `gorm:"size:20;default:local" json:"auth_type"`

	// OrganizationID is the legacy primary organization; super admins never
	// resolve through it. CurrentOrganizationID is the viewing context used
	// by super admins.
	OrganizationID        *string `gorm:"size:36;index" json:"organization_id"`
	CurrentOrganizationID *string `gorm:"size:36;index" json:"current_organization_id"`

	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// EmailOrEmpty returns the user's email or "" when none is linked yet.
func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
