package services

import (
	"errors"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

type MemberListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Role     string `form:"role"`
	Active   *bool  `form:"active"`
}

type MemberListResponse struct {
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
	Items    []models.MembershipView `json:"items"`
}

// List returns the membership read model for an organization: membership
// state joined with each member's identity.
func (s *MembershipService) List(orgID string, req *MemberListRequest) (*MemberListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Table("memberships").
		Select("memberships.user_id, memberships.organization_id, memberships.role, memberships.active, users.email, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.organization_id = ?", orgID)

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("users.email LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ?", like, like, like)
	}
	if req.Role != "" {
		query = query.Where("memberships.role = ?", req.Role)
	}
	if req.Active != nil {
		query = query.Where("memberships.active = ?", *req.Active)
	}

	var total int64
	query.Count(&total)

	var items []models.MembershipView
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("users.last_name ASC, users.first_name ASC").
		Scan(&items).Error; err != nil {
		return nil, err
	}

	return &MemberListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// Add attaches a user to an organization. The (user, organization) pair is
// unique: adding an existing member reactivates and updates the row instead
// of duplicating it.
func (s *MembershipService) Add(orgID string, req *AddMemberRequest) (*models.Membership, error) {
	role := req.Role
	if role == "" {
		role = models.MembershipRoleUser
	}
	if role != models.MembershipRoleUser && role != models.MembershipRoleAdmin {
		return nil, response.NewBadRequest("invalid role")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", req.UserID).Error; err != nil {
		return nil, response.NewNotFound("user not found")
	}

	var membership models.Membership
	err := s.db.Where("user_id = ? AND organization_id = ?", req.UserID, orgID).First(&membership).Error
	switch {
	case err == nil:
		membership.Role = role
		membership.Active = true
		if err := s.db.Save(&membership).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		membership = models.Membership{
			UserID:         req.UserID,
			OrganizationID: orgID,
			Role:           role,
			Active:         true,
		}
		if err := s.db.Create(&membership).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// give the new member a primary org if they have none yet
	if user.OrganizationID == nil {
		s.db.Model(&models.User{}).Where("id = ?", user.ID).Update("organization_id", orgID)
	}

	return &membership, nil
}

// SetRole changes a member's per-organization role.
func (s *MembershipService) SetRole(orgID, userID, role string) (*models.Membership, error) {
	if role != models.MembershipRoleUser && role != models.MembershipRoleAdmin {
		return nil, response.NewBadRequest("invalid role")
	}

	var membership models.Membership
	if err := s.db.Where("user_id = ? AND organization_id = ?", userID, orgID).First(&membership).Error; err != nil {
		return nil, response.NewNotFound("membership not found")
	}

	membership.Role = role
	if err := s.db.Save(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// SetActive deactivates ("removes") or reactivates a membership. The row is
// kept either way: removal is a soft delete that preserves audit history
// and allows later reactivation.
func (s *MembershipService) SetActive(orgID, userID string, active bool) (*models.Membership, error) {
	var membership models.Membership
	if err := s.db.Where("user_id = ? AND organization_id = ?", userID, orgID).First(&membership).Error; err != nil {
		return nil, response.NewNotFound("membership not found")
	}

	if membership.Active == active {
		return &membership, nil
	}

	membership.Active = active
	if err := s.db.Save(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}
