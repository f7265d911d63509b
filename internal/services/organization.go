package services

import (
	"errors"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/logger"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

type CreateOrganizationRequest struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
	RoomCount    int    `json:"room_count"`
	MeetingRooms int    `json:"meeting_rooms"`
}

// Create provisions a new organization. The creator is granted an admin
// membership, and their primary/current organization is set when unset.
// This is the onboarding path for users who were not invited anywhere.
func (s *OrganizationService) Create(req *CreateOrganizationRequest, creator *models.User) (*models.Organization, error) {
	org := models.Organization{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		Phone:        req.Phone,
		Email:        req.Email,
		Website:      req.Website,
		RoomCount:    req.RoomCount,
		MeetingRooms: req.MeetingRooms,
		Active:       true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		membership := models.Membership{
			UserID:         creator.ID,
			OrganizationID: org.ID,
			Role:           models.MembershipRoleAdmin,
			Active:         true,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if creator.OrganizationID == nil {
			creator.OrganizationID = &org.ID
			updates["organization_id"] = org.ID
		}
		if creator.CurrentOrganizationID == nil {
			creator.CurrentOrganizationID = &org.ID
			updates["current_organization_id"] = org.ID
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", creator.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("organization_id", org.ID).Str("created_by", creator.ID).Msg("organization created")
	return &org, nil
}

// ListSelectable returns the organizations the caller can switch into or
// pick during selection. Archived organizations never appear, whatever the
// caller's role. Super admins see every active organization; everyone else
// sees active organizations backed by one of their active memberships.
func (s *OrganizationService) ListSelectable(user *models.User) ([]models.Organization, error) {
	var orgs []models.Organization

	if user.Role == models.RoleSuperAdmin {
		if err := s.db.Where("active = ?", true).Order("name ASC").Find(&orgs).Error; err != nil {
			return nil, err
		}
		return orgs, nil
	}

	err := s.db.
		Joins("JOIN memberships ON memberships.organization_id = organizations.id").
		Where("memberships.user_id = ? AND memberships.active = ? AND organizations.active = ?", user.ID, true, true).
		Order("organizations.name ASC").
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *OrganizationService) GetByID(id string) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("organization not found")
		}
		return nil, err
	}
	return &org, nil
}

type UpdateOrganizationRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Website      *string `json:"website"`
	RoomCount    *int    `json:"room_count"`
	MeetingRooms *int    `json:"meeting_rooms"`
}

func (s *OrganizationService) Update(id string, req *UpdateOrganizationRequest) (*models.Organization, error) {
	org, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Address != nil {
		org.Address = *req.Address
	}
	if req.City != nil {
		org.City = *req.City
	}
	if req.Country != nil {
		org.Country = *req.Country
	}
	if req.Phone != nil {
		org.Phone = *req.Phone
	}
	if req.Email != nil {
		org.Email = *req.Email
	}
	if req.Website != nil {
		org.Website = *req.Website
	}
	if req.RoomCount != nil {
		org.RoomCount = *req.RoomCount
	}
	if req.MeetingRooms != nil {
		org.MeetingRooms = *req.MeetingRooms
	}

	if err := s.db.Save(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// SetActive archives or restores an organization. Rows are never deleted;
// an archived organization simply rejects all tenant access until restored.
func (s *OrganizationService) SetActive(id string, active bool) (*models.Organization, error) {
	org, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if org.Active == active {
		return org, nil
	}

	org.Active = active
	if err := s.db.Save(org).Error; err != nil {
		return nil, err
	}

	logger.Info().Str("organization_id", org.ID).Bool("active", active).Msg("organization active flag toggled")
	return org, nil
}

// SwitchCurrent changes a super admin's viewing context. Any other role is
// rejected outright. The target must exist; its active flag is deliberately
// not checked here; the access gate self-repairs on the next request if the
// target has been archived in the meantime. Switching to the already-current
// organization is a no-op success.
func (s *OrganizationService) SwitchCurrent(user *models.User, targetOrgID string) error {
	if user.Role != models.RoleSuperAdmin {
		return response.NewForbidden("super admin access required")
	}

	if user.CurrentOrganizationID != nil && *user.CurrentOrganizationID == targetOrgID {
		return nil
	}

	var org models.Organization
	if err := s.db.First(&org, "id = ?", targetOrgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("organization not found")
		}
		return err
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("current_organization_id", targetOrgID).Error; err != nil {
		return err
	}
	user.CurrentOrganizationID = &org.ID
	return nil
}
