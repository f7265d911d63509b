package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/guestdesk/crm-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Invitation{},
		&models.Contact{},
		&models.Deal{},
		&models.Activity{},
		&models.DocumentTemplate{},
		&models.RefreshToken{},
		&models.SystemConfig{},
		&models.SystemLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestOrg(t *testing.T, db *gorm.DB, name string, active bool) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name, Active: active}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create organization %q: %v", name, err)
	}
	// GORM drops zero-valued fields carrying a default tag from the INSERT,
	// so an inactive org must be written explicitly after creation.
	if !active {
		if err := db.Model(org).UpdateColumn("active", false).Error; err != nil {
			t.Fatalf("failed to mark organization %q inactive: %v", name, err)
		}
	}
	return org
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: &email, Role: role, AuthType: models.AuthTypeLocal}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", email, err)
	}
	return user
}

func createTestMembership(t *testing.T, db *gorm.DB, userID, orgID, role string, active bool) *models.Membership {
	t.Helper()
	m := &models.Membership{UserID: userID, OrganizationID: orgID, Role: role, Active: active}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
	// GORM drops zero-valued fields carrying a default tag from the INSERT,
	// so an inactive membership must be written explicitly after creation.
	if !active {
		if err := db.Model(m).UpdateColumn("active", false).Error; err != nil {
			t.Fatalf("failed to mark membership inactive: %v", err)
		}
	}
	return m
}

func createTestInvitation(t *testing.T, db *gorm.DB, email string, orgID *string, role string, sentAt time.Time) *models.Invitation {
	t.Helper()
	inv := &models.Invitation{
		Email:          email,
		OrganizationID: orgID,
		Role:           role,
		Status:         models.InvitationPending,
		SentAt:         sentAt,
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}
	// BeforeCreate leaves a provided SentAt alone, but make sure
	db.Model(inv).Update("sent_at", sentAt)
	return inv
}

func strPtr(s string) *string { return &s }

// uniqueEmail avoids unique-index collisions across subtests sharing a DB.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
