package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template types
const (
	TemplateTypeOffer    = "offer"
	TemplateTypeContract = "contract"
	TemplateTypeEmail    = "email"
)

// DocumentTemplate is a tenant-scoped document blueprint. Variable
// substitution happens in the rendering layer, not here.
type DocumentTemplate struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string `gorm:"size:36;index;not null" json:"organization_id"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Type        string `gorm:"size:50;default:offer" json:"type"`
	Description string `gorm:"size:500" json:"description"`
	Content     string `gorm:"type:text" json:"content"`
	Variables   string `gorm:"type:text" json:"variables"` // JSON array of variable names

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DocumentTemplate) TableName() string { return "document_templates" }

func (t *DocumentTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
