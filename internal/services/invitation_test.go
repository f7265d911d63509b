package services

import (
	"testing"
	"time"

	"github.com/guestdesk/crm-backend/internal/models"
)

func TestResolvePending_BindsMembershipAndPrimaryOrg(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "invitee@example.com", models.RoleUser)
	inv := createTestInvitation(t, db, "invitee@example.com", &org.ID, models.MembershipRoleUser, time.Now())

	svc.ResolvePending(user)

	var membership models.Membership
	if err := db.Where("user_id = ? AND organization_id = ?", user.ID, org.ID).First(&membership).Error; err != nil {
		t.Fatalf("expected membership created: %v", err)
	}
	if !membership.Active || membership.Role != models.MembershipRoleUser {
		t.Errorf("membership = {active: %v, role: %q}, want active user", membership.Active, membership.Role)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if reloaded.OrganizationID == nil || *reloaded.OrganizationID != org.ID {
		t.Error("primary organization was not assigned")
	}
	if reloaded.CurrentOrganizationID == nil || *reloaded.CurrentOrganizationID != org.ID {
		t.Error("current organization was not assigned")
	}

	var accepted models.Invitation
	db.First(&accepted, "id = ?", inv.ID)
	if accepted.Status != models.InvitationAccepted {
		t.Errorf("invitation status = %q, want accepted", accepted.Status)
	}
	if accepted.AcceptedAt == nil {
		t.Error("accepted_at was not recorded")
	}
}

func TestResolvePending_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "repeat@example.com", models.RoleUser)
	createTestInvitation(t, db, "repeat@example.com", &org.ID, models.MembershipRoleUser, time.Now())

	svc.ResolvePending(user)
	svc.ResolvePending(user)

	var count int64
	db.Model(&models.Membership{}).Where("user_id = ? AND organization_id = ?", user.ID, org.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one membership, got %d", count)
	}
}

func TestResolvePending_OldestInvitationWinsPrimary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	first := createTestOrg(t, db, "Hotel First", true)
	second := createTestOrg(t, db, "Hotel Second", true)
	user := createTestUser(t, db, "multi@example.com", models.RoleUser)

	// insert newest first to prove ordering is by sent_at, not insertion
	createTestInvitation(t, db, "multi@example.com", &second.ID, models.MembershipRoleUser, time.Now())
	createTestInvitation(t, db, "multi@example.com", &first.ID, models.MembershipRoleUser, time.Now().Add(-24*time.Hour))

	svc.ResolvePending(user)

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if reloaded.OrganizationID == nil || *reloaded.OrganizationID != first.ID {
		t.Errorf("primary org should come from the oldest invitation, got %v", reloaded.OrganizationID)
	}

	// both memberships exist regardless
	var count int64
	db.Model(&models.Membership{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 memberships, got %d", count)
	}
}

func TestResolvePending_SkipsNullOrgInvitations(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	user := createTestUser(t, db, "standalone@example.com", models.RoleUser)
	inv := createTestInvitation(t, db, "standalone@example.com", nil, models.MembershipRoleUser, time.Now())

	svc.ResolvePending(user)

	var still models.Invitation
	db.First(&still, "id = ?", inv.ID)
	if still.Status != models.InvitationPending {
		t.Errorf("null-org invitation should stay pending, got %q", still.Status)
	}

	var count int64
	db.Model(&models.Membership{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no memberships, got %d", count)
	}
}

func TestResolvePending_ReactivatesAndUpdatesRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "rejoin@example.com", models.RoleUser)
	user.OrganizationID = &org.ID
	db.Save(user)
	createTestMembership(t, db, user.ID, org.ID, models.MembershipRoleUser, false)
	createTestInvitation(t, db, "rejoin@example.com", &org.ID, models.MembershipRoleAdmin, time.Now())

	svc.ResolvePending(user)

	var membership models.Membership
	db.Where("user_id = ? AND organization_id = ?", user.ID, org.ID).First(&membership)
	if !membership.Active {
		t.Error("membership should have been reactivated")
	}
	if membership.Role != models.MembershipRoleAdmin {
		t.Errorf("membership role = %q, want the invitation's admin role", membership.Role)
	}
}

func TestResolvePending_DoesNotOverwriteExistingPrimaryOrg(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	home := createTestOrg(t, db, "Hotel Home", true)
	other := createTestOrg(t, db, "Hotel Other", true)
	user := createTestUser(t, db, "settled@example.com", models.RoleUser)
	user.OrganizationID = &home.ID
	user.CurrentOrganizationID = &home.ID
	db.Save(user)
	createTestInvitation(t, db, "settled@example.com", &other.ID, models.MembershipRoleUser, time.Now())

	svc.ResolvePending(user)

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if *reloaded.OrganizationID != home.ID {
		t.Error("primary org must not change once set")
	}
	if *reloaded.CurrentOrganizationID != home.ID {
		t.Error("current org must not change once set")
	}
}

func TestCreateInvitation_UpsertsPendingRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	inviter := createTestUser(t, db, "admin@example.com", models.RoleUser)

	req := &CreateInvitationRequest{Email: "New@Example.com", OrganizationID: &org.ID, Role: models.MembershipRoleUser}
	first, err := svc.Create(req, inviter.ID)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if first.Email != "new@example.com" {
		t.Errorf("email should be normalized, got %q", first.Email)
	}

	second, err := svc.Create(&CreateInvitationRequest{
		Email:          "new@example.com",
		OrganizationID: &org.ID,
		Role:           models.MembershipRoleAdmin,
	}, inviter.ID)
	if err != nil {
		t.Fatalf("Create() second error: %v", err)
	}
	if second.ID != first.ID {
		t.Error("re-inviting the same email should update the pending row, not add one")
	}
	if second.Role != models.MembershipRoleAdmin {
		t.Errorf("role = %q, want updated admin role", second.Role)
	}

	var count int64
	db.Model(&models.Invitation{}).Where("email = ?", "new@example.com").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 invitation row, got %d", count)
	}
}

func TestCreateInvitation_RejectsArchivedOrg(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	org := createTestOrg(t, db, "Hotel Closed", false)
	inviter := createTestUser(t, db, "admin2@example.com", models.RoleUser)

	_, err := svc.Create(&CreateInvitationRequest{Email: "x@example.com", OrganizationID: &org.ID}, inviter.ID)
	if err == nil {
		t.Fatal("expected error inviting into an archived organization")
	}
}

func TestCancelInvitation_PendingOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	inv := createTestInvitation(t, db, "cancel@example.com", &org.ID, models.MembershipRoleUser, time.Now())

	if err := svc.Cancel(org.ID, inv.ID); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}

	var cancelled models.Invitation
	db.First(&cancelled, "id = ?", inv.ID)
	if cancelled.Status != models.InvitationCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	// cancelling again fails: it is no longer pending
	if err := svc.Cancel(org.ID, inv.ID); err == nil {
		t.Error("expected error cancelling a non-pending invitation")
	}
}

func TestExpireStale(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvitationService(db, nil)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	old := createTestInvitation(t, db, "old@example.com", &org.ID, models.MembershipRoleUser, time.Now().AddDate(0, 0, -60))
	fresh := createTestInvitation(t, db, "fresh@example.com", &org.ID, models.MembershipRoleUser, time.Now())

	n, err := svc.ExpireStale(30)
	if err != nil {
		t.Fatalf("ExpireStale() error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired, got %d", n)
	}

	var expired, pending models.Invitation
	db.First(&expired, "id = ?", old.ID)
	db.First(&pending, "id = ?", fresh.ID)
	if expired.Status != models.InvitationExpired {
		t.Errorf("old invitation status = %q, want expired", expired.Status)
	}
	if pending.Status != models.InvitationPending {
		t.Errorf("fresh invitation status = %q, want pending", pending.Status)
	}
}
