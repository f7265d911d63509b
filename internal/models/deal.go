package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deal stages
const (
	DealStageInquiry     = "inquiry"
	DealStageOffer       = "offer"
	DealStageNegotiation = "negotiation"
	DealStageWon         = "won"
	DealStageLost        = "lost"
)

// Deal is a tenant-scoped sales opportunity, optionally linked to a contact.
type Deal struct {
	ID             string   `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string   `gorm:"size:36;index;not null" json:"organization_id"`
	ContactID      *string  `gorm:"size:36;index" json:"contact_id"`
	Contact        *Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`

	Title             string     `gorm:"size:255;not null" json:"title"`
	Stage             string     `gorm:"size:50;default:inquiry;index" json:"stage"`
	Amount            float64    `json:"amount"`
	Currency          string     `gorm:"size:10;default:EUR" json:"currency"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Notes             string     `gorm:"type:text" json:"notes"`
	OwnerID           string     `gorm:"size:36;index" json:"owner_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Deal) TableName() string { return "deals" }

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
