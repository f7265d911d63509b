package services

import (
	"errors"
	"time"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/logger"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type InvitationService struct {
	db    *gorm.DB
	queue TaskQueue
}

// NewInvitationService creates the invitation service. queue may be nil in
// tests; delivery is then skipped.
func NewInvitationService(db *gorm.DB, queue TaskQueue) *InvitationService {
	return &InvitationService{db: db, queue: queue}
}

type CreateInvitationRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	OrganizationID *string `json:"organization_id"`
	Role           string  `json:"role"`
}

// Create issues a pending invitation. At most one pending invitation per
// (email, organization) is meaningful: creating again updates the existing
// pending row and re-triggers delivery instead of stacking duplicates.
func (s *InvitationService) Create(req *CreateInvitationRequest, invitedByID string) (*models.Invitation, error) {
	email := normalizeEmail(req.Email)
	role := req.Role
	if role == "" {
		role = models.MembershipRoleUser
	}
	if role != models.MembershipRoleUser && role != models.MembershipRoleAdmin {
		return nil, response.NewBadRequest("invalid role")
	}

	if req.OrganizationID != nil {
		var org models.Organization
		if err := s.db.First(&org, "id = ?", *req.OrganizationID).Error; err != nil {
			return nil, response.NewNotFound("organization not found")
		}
		if !org.Active {
			return nil, response.NewOrganizationArchived("organization archived")
		}
	}

	var invitation models.Invitation
	query := s.db.Where("email = ? AND status = ?", email, models.InvitationPending)
	if req.OrganizationID != nil {
		query = query.Where("organization_id = ?", *req.OrganizationID)
	} else {
		query = query.Where("organization_id IS NULL")
	}

	err := query.First(&invitation).Error
	switch {
	case err == nil:
		invitation.Role = role
		invitation.InvitedByID = invitedByID
		invitation.SentAt = time.Now()
		if err := s.db.Save(&invitation).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		invitation = models.Invitation{
			Email:          email,
			OrganizationID: req.OrganizationID,
			Role:           role,
			InvitedByID:    invitedByID,
			Status:         models.InvitationPending,
		}
		if err := s.db.Create(&invitation).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.enqueueDelivery(&invitation)
	return &invitation, nil
}

type InvitationListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	Email    string `form:"email"`
}

type InvitationListResponse struct {
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Items    []models.Invitation `json:"items"`
}

// List returns invitations for one organization.
func (s *InvitationService) List(orgID string, req *InvitationListRequest) (*InvitationListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Invitation{}).Where("organization_id = ?", orgID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Email != "" {
		query = query.Where("email LIKE ?", "%"+normalizeEmail(req.Email)+"%")
	}

	var total int64
	query.Count(&total)

	var items []models.Invitation
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("sent_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &InvitationListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// Cancel moves a pending invitation to cancelled. Accepted invitations are
// consumed exactly once and never reopened or cancelled.
func (s *InvitationService) Cancel(orgID, invitationID string) error {
	var invitation models.Invitation
	if err := s.db.Where("id = ? AND organization_id = ?", invitationID, orgID).First(&invitation).Error; err != nil {
		return response.NewNotFound("invitation not found")
	}
	if invitation.Status != models.InvitationPending {
		return response.NewBadRequest("only pending invitations can be cancelled")
	}
	return s.db.Model(&invitation).Update("status", models.InvitationCancelled).Error
}

// Resend re-triggers delivery of a pending invitation without changing its
// status or identity.
func (s *InvitationService) Resend(orgID, invitationID string) error {
	var invitation models.Invitation
	if err := s.db.Where("id = ? AND organization_id = ?", invitationID, orgID).First(&invitation).Error; err != nil {
		return response.NewNotFound("invitation not found")
	}
	if invitation.Status != models.InvitationPending {
		return response.NewBadRequest("only pending invitations can be resent")
	}
	s.enqueueDelivery(&invitation)
	return nil
}

// ResolvePending binds the authenticating user to every organization that
// invited their email, once per invitation. Invitations are processed oldest
// first so the "primary org" designation is deterministic when several are
// pending. Each invitation is its own transaction: one failing does not
// corrupt the others, and a half-applied invitation cannot persist.
func (s *InvitationService) ResolvePending(user *models.User) {
	email := user.EmailOrEmpty()
	if email == "" {
		return
	}

	var invitations []models.Invitation
	if err := s.db.Where("email = ? AND status = ?", email, models.InvitationPending).
		Order("sent_at ASC").Find(&invitations).Error; err != nil {
		logger.Error().Err(err).Str("email", email).Msg("failed to load pending invitations")
		return
	}

	for i := range invitations {
		inv := &invitations[i]
		if inv.OrganizationID == nil {
			// no org intended; the invitee onboards independently
			continue
		}
		if err := s.accept(user, inv); err != nil {
			logger.Error().Err(err).
				Str("invitation_id", inv.ID).
				Str("organization_id", *inv.OrganizationID).
				Msg("failed to resolve invitation")
		}
	}
}

// accept applies one invitation: membership upsert, primary-org assignment,
// status flip, all in one transaction. The status is re-checked inside it
// so racing resolutions of the same invitation collapse to one acceptance.
func (s *InvitationService) accept(user *models.User, inv *models.Invitation) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var fresh models.Invitation
		if err := tx.First(&fresh, "id = ?", inv.ID).Error; err != nil {
			return err
		}
		if fresh.Status != models.InvitationPending {
			return nil
		}

		orgID := *fresh.OrganizationID

		var membership models.Membership
		err := tx.Where("user_id = ? AND organization_id = ?", user.ID, orgID).First(&membership).Error
		switch {
		case err == nil:
			// the newer invitation is authoritative for role and activity
			membership.Active = true
			membership.Role = fresh.Role
			if err := tx.Save(&membership).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			membership = models.Membership{
				UserID:         user.ID,
				OrganizationID: orgID,
				Role:           fresh.Role,
				Active:         true,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// first processed invitation wins the primary-org designation
		updates := map[string]interface{}{}
		if user.OrganizationID == nil {
			user.OrganizationID = &orgID
			updates["organization_id"] = orgID
		}
		if user.CurrentOrganizationID == nil {
			user.CurrentOrganizationID = &orgID
			updates["current_organization_id"] = orgID
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		return tx.Model(&fresh).Updates(map[string]interface{}{
			"status":      models.InvitationAccepted,
			"accepted_at": now,
		}).Error
	})
}

// ExpireStale moves pending invitations older than the given number of days
// to expired. Returns the number of rows affected.
func (s *InvitationService) ExpireStale(expiryDays int) (int64, error) {
	if expiryDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -expiryDays)
	result := s.db.Model(&models.Invitation{}).
		Where("status = ? AND sent_at < ?", models.InvitationPending, cutoff).
		Update("status", models.InvitationExpired)
	return result.RowsAffected, result.Error
}

func (s *InvitationService) enqueueDelivery(inv *models.Invitation) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(&EmailTask{InvitationID: inv.ID}); err != nil {
		logger.Error().Err(err).Str("invitation_id", inv.ID).Msg("failed to enqueue invitation email")
	}
}
