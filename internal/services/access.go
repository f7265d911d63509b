package services

import (
	"errors"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/logger"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

// AccessService is the single choke point deciding which organization a
// request operates on and whether the caller may operate there. It reads
// fresh state on every call; caching membership or archival state across
// requests would turn stale data into an access-control hole.
type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// EffectiveOrganizationID returns the organization id all tenant-data
// operations for this user must be scoped to, or "" when none resolves.
// Super admins follow their explicitly chosen viewing context and never
// their legacy primary organization; everyone else follows the primary.
// Pure function of already-loaded user state.
func EffectiveOrganizationID(user *models.User) string {
	if user.Role == models.RoleSuperAdmin {
		if user.CurrentOrganizationID != nil {
			return *user.CurrentOrganizationID
		}
		return ""
	}
	if user.OrganizationID != nil {
		return *user.OrganizationID
	}
	return ""
}

// AccessResult is what the gate attaches to the request context on success.
type AccessResult struct {
	User           *models.User
	OrganizationID string // effective organization; "" only from Identify, never from Authorize
	OrgRole        string // caller's role within the effective organization
}

// Authorize runs the per-request access checks for the given user id.
//
// Super admins get a self-repair pass: a viewing context pointing at an
// archived or deleted organization is repointed to the first active one
// (persisted) before anything downstream can read the stale value. Regular
// users must hold an active membership in their relevant organization, and
// that organization must not be archived.
func (s *AccessService) Authorize(userID string) (*AccessResult, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("user not found")
		}
		return nil, err
	}

	if user.Role == models.RoleSuperAdmin {
		if err := s.repairViewingContext(&user); err != nil {
			return nil, err
		}
		// No viewing context resolves, even after repair. Tenant routes must
		// not run org-less; the selection endpoints stay reachable through
		// Identify so the admin can create or switch into an organization.
		effective := EffectiveOrganizationID(&user)
		if effective == "" {
			return nil, response.NewNoOrganization("no organization selected")
		}
		return &AccessResult{
			User:           &user,
			OrganizationID: effective,
			OrgRole:        models.MembershipRoleAdmin,
		}, nil
	}

	// Membership check prefers the current organization, falling back to the
	// primary one. The effective org attached below still follows
	// EffectiveOrganizationID.
	relevantOrg := ""
	if user.CurrentOrganizationID != nil {
		relevantOrg = *user.CurrentOrganizationID
	} else if user.OrganizationID != nil {
		relevantOrg = *user.OrganizationID
	}
	if relevantOrg == "" {
		return nil, response.NewNoOrganization("no organization assigned")
	}

	var membership models.Membership
	if err := s.db.Where("user_id = ? AND organization_id = ?", user.ID, relevantOrg).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewMembershipInactive("account deactivated")
		}
		return nil, err
	}
	if !membership.Active {
		return nil, response.NewMembershipInactive("account deactivated")
	}

	var org models.Organization
	if err := s.db.First(&org, "id = ?", relevantOrg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewOrganizationArchived("organization archived")
		}
		return nil, err
	}
	if !org.Active {
		return nil, response.NewOrganizationArchived("organization archived")
	}

	return &AccessResult{
		User:           &user,
		OrganizationID: EffectiveOrganizationID(&user),
		OrgRole:        membership.Role,
	}, nil
}

// Identify loads the user and resolves their effective organization without
// enforcing membership or archival checks. Selection endpoints (creating an
// organization, listing selectable ones, switching) must work for callers
// who would fail the full gate, otherwise a user whose only organization was
// archived could never leave it. Super-admin self-repair still runs.
func (s *AccessService) Identify(userID string) (*AccessResult, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("user not found")
		}
		return nil, err
	}

	if user.Role == models.RoleSuperAdmin {
		if err := s.repairViewingContext(&user); err != nil {
			return nil, err
		}
		return &AccessResult{
			User:           &user,
			OrganizationID: EffectiveOrganizationID(&user),
			OrgRole:        models.MembershipRoleAdmin,
		}, nil
	}

	orgRole := ""
	effective := EffectiveOrganizationID(&user)
	if effective != "" {
		var membership models.Membership
		if err := s.db.Where("user_id = ? AND organization_id = ?", user.ID, effective).
			First(&membership).Error; err == nil && membership.Active {
			orgRole = membership.Role
		}
	}

	return &AccessResult{
		User:           &user,
		OrganizationID: effective,
		OrgRole:        orgRole,
	}, nil
}

// repairViewingContext repoints a super admin off an archived or missing
// current organization. Must run before any downstream read of the pointer.
func (s *AccessService) repairViewingContext(user *models.User) error {
	if user.CurrentOrganizationID == nil {
		return nil
	}

	var org models.Organization
	err := s.db.First(&org, "id = ?", *user.CurrentOrganizationID).Error
	if err == nil && org.Active {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var next models.Organization
	if err := s.db.Where("active = ?", true).Order("created_at ASC").First(&next).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user.CurrentOrganizationID = nil
	} else {
		user.CurrentOrganizationID = &next.ID
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("current_organization_id", user.CurrentOrganizationID).Error; err != nil {
		return err
	}

	logger.Info().
		Str("user_id", user.ID).
		Interface("current_organization_id", user.CurrentOrganizationID).
		Msg("repointed super admin viewing context")
	return nil
}
