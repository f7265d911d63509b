package services

import (
	"errors"
	"testing"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/response"
)

func TestCreateOrganization_GrantsAdminMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	creator := createTestUser(t, db, "founder@example.com", models.RoleUser)

	org, err := svc.Create(&CreateOrganizationRequest{Name: "Hotel Aurora", City: "Vienna"}, creator)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !org.Active {
		t.Error("new organization should be active")
	}

	var membership models.Membership
	if err := db.Where("user_id = ? AND organization_id = ?", creator.ID, org.ID).First(&membership).Error; err != nil {
		t.Fatalf("expected creator membership: %v", err)
	}
	if membership.Role != models.MembershipRoleAdmin || !membership.Active {
		t.Errorf("membership = {role: %q, active: %v}, want active admin", membership.Role, membership.Active)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", creator.ID)
	if reloaded.OrganizationID == nil || *reloaded.OrganizationID != org.ID {
		t.Error("creator's primary org should be set")
	}
}

func TestCreateOrganization_KeepsExistingPrimaryOrg(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	home := createTestOrg(t, db, "Hotel Home", true)
	creator := createTestUser(t, db, "second@example.com", models.RoleUser)
	creator.OrganizationID = &home.ID
	creator.CurrentOrganizationID = &home.ID
	db.Save(creator)

	org, err := svc.Create(&CreateOrganizationRequest{Name: "Hotel Second"}, creator)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", creator.ID)
	if *reloaded.OrganizationID != home.ID {
		t.Error("existing primary org must not be overwritten")
	}

	// but they still get an admin membership in the new org
	var membership models.Membership
	if err := db.Where("user_id = ? AND organization_id = ?", creator.ID, org.ID).First(&membership).Error; err != nil {
		t.Fatalf("expected membership in new org: %v", err)
	}
}

func TestListSelectable_ExcludesArchived(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	active := createTestOrg(t, db, "Hotel Active", true)
	archived := createTestOrg(t, db, "Hotel Archived", false)

	user := createTestUser(t, db, "lister@example.com", models.RoleUser)
	createTestMembership(t, db, user.ID, active.ID, models.MembershipRoleUser, true)
	createTestMembership(t, db, user.ID, archived.ID, models.MembershipRoleUser, true)

	orgs, err := svc.ListSelectable(user)
	if err != nil {
		t.Fatalf("ListSelectable() error: %v", err)
	}
	if len(orgs) != 1 || orgs[0].ID != active.ID {
		t.Errorf("expected only the active org, got %d orgs", len(orgs))
	}
}

func TestListSelectable_ExcludesInactiveMemberships(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "kicked@example.com", models.RoleUser)
	createTestMembership(t, db, user.ID, org.ID, models.MembershipRoleUser, false)

	orgs, err := svc.ListSelectable(user)
	if err != nil {
		t.Fatalf("ListSelectable() error: %v", err)
	}
	if len(orgs) != 0 {
		t.Errorf("expected no selectable orgs, got %d", len(orgs))
	}
}

func TestListSelectable_SuperAdminSeesAllActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	createTestOrg(t, db, "Hotel A", true)
	createTestOrg(t, db, "Hotel B", true)
	createTestOrg(t, db, "Hotel Gone", false)

	admin := createTestUser(t, db, "root@example.com", models.RoleSuperAdmin)

	orgs, err := svc.ListSelectable(admin)
	if err != nil {
		t.Fatalf("ListSelectable() error: %v", err)
	}
	if len(orgs) != 2 {
		t.Errorf("expected 2 active orgs without any membership, got %d", len(orgs))
	}
}

func TestSwitchCurrent_ForbiddenForRegularUsers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	user := createTestUser(t, db, "plain@example.com", models.RoleUser)
	createTestMembership(t, db, user.ID, org.ID, models.MembershipRoleAdmin, true)

	err := svc.SwitchCurrent(user, org.ID)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != response.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSwitchCurrent_TargetMustExist(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	admin := createTestUser(t, db, "root2@example.com", models.RoleSuperAdmin)

	err := svc.SwitchCurrent(admin, "nope")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 404 {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSwitchCurrent_PersistsAndNoOps(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)
	admin := createTestUser(t, db, "root3@example.com", models.RoleSuperAdmin)

	if err := svc.SwitchCurrent(admin, org.ID); err != nil {
		t.Fatalf("SwitchCurrent() error: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", admin.ID)
	if reloaded.CurrentOrganizationID == nil || *reloaded.CurrentOrganizationID != org.ID {
		t.Error("viewing context was not persisted")
	}

	// switching to the already-current org succeeds without touching anything
	if err := svc.SwitchCurrent(admin, org.ID); err != nil {
		t.Errorf("no-op switch should succeed, got %v", err)
	}
}

func TestSwitchCurrent_ArchivedTargetAllowed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	archived := createTestOrg(t, db, "Hotel Archived", false)
	admin := createTestUser(t, db, "root4@example.com", models.RoleSuperAdmin)

	// only existence is checked; the access gate repairs on next request
	if err := svc.SwitchCurrent(admin, archived.ID); err != nil {
		t.Errorf("switch to archived org should succeed here, got %v", err)
	}
}

func TestSetActive_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrganizationService(db)

	org := createTestOrg(t, db, "Hotel Aurora", true)

	archived, err := svc.SetActive(org.ID, false)
	if err != nil {
		t.Fatalf("SetActive() error: %v", err)
	}
	if archived.Active {
		t.Error("organization should be archived")
	}

	again, err := svc.SetActive(org.ID, false)
	if err != nil {
		t.Fatalf("second SetActive() error: %v", err)
	}
	if again.Active {
		t.Error("archiving twice should stay archived")
	}

	restored, err := svc.SetActive(org.ID, true)
	if err != nil {
		t.Fatalf("restore error: %v", err)
	}
	if !restored.Active {
		t.Error("organization should be active again")
	}
}
