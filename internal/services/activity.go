package services

import (
	"errors"
	"time"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

type ActivityListRequest struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Type         string `form:"type"`
	ContactID    string `form:"contact_id"`
	DealID       string `form:"deal_id"`
	AssignedToID string `form:"assigned_to_id"`
	Open         *bool  `form:"open"` // true: only not-yet-completed
}

type ActivityListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.Activity `json:"items"`
}

func (s *ActivityService) List(orgID string, req *ActivityListRequest) (*ActivityListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Activity{}).Where("organization_id = ?", orgID)

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.ContactID != "" {
		query = query.Where("contact_id = ?", req.ContactID)
	}
	if req.DealID != "" {
		query = query.Where("deal_id = ?", req.DealID)
	}
	if req.AssignedToID != "" {
		query = query.Where("assigned_to_id = ?", req.AssignedToID)
	}
	if req.Open != nil {
		if *req.Open {
			query = query.Where("completed_at IS NULL")
		} else {
			query = query.Where("completed_at IS NOT NULL")
		}
	}

	var total int64
	query.Count(&total)

	var items []models.Activity
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("due_at ASC, created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &ActivityListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

func (s *ActivityService) GetByID(orgID, id string) (*models.Activity, error) {
	var activity models.Activity
	if err := s.db.Where("id = ? AND organization_id = ?", id, orgID).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("activity not found")
		}
		return nil, err
	}
	return &activity, nil
}

type CreateActivityRequest struct {
	Type         string     `json:"type"`
	Subject      string     `json:"subject" binding:"required"`
	Notes        string     `json:"notes"`
	ContactID    *string    `json:"contact_id"`
	DealID       *string    `json:"deal_id"`
	DueAt        *time.Time `json:"due_at"`
	AssignedToID string     `json:"assigned_to_id"`
}

func (s *ActivityService) Create(orgID string, req *CreateActivityRequest, creatorID string) (*models.Activity, error) {
	typ := req.Type
	if typ == "" {
		typ = models.ActivityTypeTask
	}
	assignee := req.AssignedToID
	if assignee == "" {
		assignee = creatorID
	}

	if req.ContactID != nil {
		var count int64
		s.db.Model(&models.Contact{}).Where("id = ? AND organization_id = ?", *req.ContactID, orgID).Count(&count)
		if count == 0 {
			return nil, response.NewNotFound("contact not found")
		}
	}
	if req.DealID != nil {
		var count int64
		s.db.Model(&models.Deal{}).Where("id = ? AND organization_id = ?", *req.DealID, orgID).Count(&count)
		if count == 0 {
			return nil, response.NewNotFound("deal not found")
		}
	}

	activity := models.Activity{
		OrganizationID: orgID,
		ContactID:      req.ContactID,
		DealID:         req.DealID,
		Type:           typ,
		Subject:        req.Subject,
		Notes:          req.Notes,
		DueAt:          req.DueAt,
		AssignedToID:   assignee,
	}
	if err := s.db.Create(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

type UpdateActivityRequest struct {
	Type         *string    `json:"type"`
	Subject      *string    `json:"subject"`
	Notes        *string    `json:"notes"`
	DueAt        *time.Time `json:"due_at"`
	AssignedToID *string    `json:"assigned_to_id"`
}

func (s *ActivityService) Update(orgID, id string, req *UpdateActivityRequest) (*models.Activity, error) {
	activity, err := s.GetByID(orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		activity.Type = *req.Type
	}
	if req.Subject != nil {
		activity.Subject = *req.Subject
	}
	if req.Notes != nil {
		activity.Notes = *req.Notes
	}
	if req.DueAt != nil {
		activity.DueAt = req.DueAt
	}
	if req.AssignedToID != nil {
		activity.AssignedToID = *req.AssignedToID
	}

	if err := s.db.Save(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

// Complete marks an activity done. Completing an already-completed activity
// keeps the original completion time.
func (s *ActivityService) Complete(orgID, id string) (*models.Activity, error) {
	activity, err := s.GetByID(orgID, id)
	if err != nil {
		return nil, err
	}

	if activity.CompletedAt == nil {
		now := time.Now()
		activity.CompletedAt = &now
		if err := s.db.Save(activity).Error; err != nil {
			return nil, err
		}
	}
	return activity, nil
}

func (s *ActivityService) Delete(orgID, id string) error {
	result := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.Activity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("activity not found")
	}
	return nil
}
