package services

import (
	"testing"

	"github.com/guestdesk/crm-backend/internal/models"
)

func TestAddMember_CreatesAndUpserts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMembershipService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "newmember@example.com", models.RoleUser)

	m, err := svc.Add(org.ID, &AddMemberRequest{UserID: user.ID})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if m.Role != models.MembershipRoleUser || !m.Active {
		t.Errorf("membership = {role: %q, active: %v}, want active user", m.Role, m.Active)
	}

	// a primary org is assigned to users who had none
	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if reloaded.OrganizationID == nil || *reloaded.OrganizationID != org.ID {
		t.Error("expected primary org assigned on first membership")
	}

	// adding again with a new role updates the existing row
	again, err := svc.Add(org.ID, &AddMemberRequest{UserID: user.ID, Role: models.MembershipRoleAdmin})
	if err != nil {
		t.Fatalf("second Add() error: %v", err)
	}
	if again.ID != m.ID {
		t.Error("expected the same membership row")
	}
	if again.Role != models.MembershipRoleAdmin {
		t.Errorf("role = %q, want admin", again.Role)
	}

	var count int64
	db.Model(&models.Membership{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 membership row, got %d", count)
	}
}

func TestAddMember_RejectsUnknownUserAndRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMembershipService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "known@example.com", models.RoleUser)

	if _, err := svc.Add(org.ID, &AddMemberRequest{UserID: "ghost"}); err == nil {
		t.Error("expected error for unknown user")
	}
	if _, err := svc.Add(org.ID, &AddMemberRequest{UserID: user.ID, Role: "owner"}); err == nil {
		t.Error("expected error for invalid role")
	}
}

func TestSetMembershipActive_SoftRemoval(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMembershipService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "leaver@example.com", models.RoleUser)
	createTestMembership(t, db, user.ID, org.ID, models.MembershipRoleUser, true)

	m, err := svc.SetActive(org.ID, user.ID, false)
	if err != nil {
		t.Fatalf("SetActive() error: %v", err)
	}
	if m.Active {
		t.Error("membership should be deactivated")
	}

	// the row survives and can be reactivated later
	var count int64
	db.Model(&models.Membership{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected the row kept, got %d rows", count)
	}

	back, err := svc.SetActive(org.ID, user.ID, true)
	if err != nil {
		t.Fatalf("reactivate error: %v", err)
	}
	if !back.Active {
		t.Error("membership should be active again")
	}
}

func TestSetRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMembershipService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "promote@example.com", models.RoleUser)
	createTestMembership(t, db, user.ID, org.ID, models.MembershipRoleUser, true)

	m, err := svc.SetRole(org.ID, user.ID, models.MembershipRoleAdmin)
	if err != nil {
		t.Fatalf("SetRole() error: %v", err)
	}
	if m.Role != models.MembershipRoleAdmin {
		t.Errorf("role = %q, want admin", m.Role)
	}

	if _, err := svc.SetRole(org.ID, user.ID, "owner"); err == nil {
		t.Error("expected error for invalid role")
	}
	if _, err := svc.SetRole(org.ID, "ghost", models.MembershipRoleUser); err == nil {
		t.Error("expected error for missing membership")
	}
}

func TestMemberList_JoinsUserFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMembershipService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "joined@example.com", models.RoleUser)
	user.FirstName = "Maria"
	user.LastName = "Huber"
	db.Save(user)
	createTestMembership(t, db, user.ID, org.ID, models.MembershipRoleAdmin, true)

	resp, err := svc.List(org.ID, &MemberListRequest{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("Total = %d, want 1", resp.Total)
	}
	item := resp.Items[0]
	if item.Email != "joined@example.com" || item.FirstName != "Maria" {
		t.Errorf("expected joined user fields, got %+v", item)
	}
	if item.Role != models.MembershipRoleAdmin {
		t.Errorf("Role = %q, want admin", item.Role)
	}
}
