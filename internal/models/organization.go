package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is a tenant (a hotel). Archived organizations keep their rows
// but reject all tenant-data access.
type Organization struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`

	// Hotel profile, opaque to the access model
	Address      string `gorm:"size:500" json:"address"`
	City         string `gorm:"size:100" json:"city"`
	Country      string `gorm:"size:100" json:"country"`
	Phone        string `gorm:"size:50" json:"phone"`
	Email        string `gorm:"size:255" json:"email"`
	Website      string `gorm:"size:255" json:"website"`
	RoomCount    int    `json:"room_count"`
	MeetingRooms int    `json:"meeting_rooms"`

	Active    bool           `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Organization) TableName() string { return "organizations" }

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
