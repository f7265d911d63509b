package services

import (
	"errors"
	"time"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type DealService struct {
	db *gorm.DB
}

func NewDealService(db *gorm.DB) *DealService {
	return &DealService{db: db}
}

type DealListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Search    string `form:"search"`
	Stage     string `form:"stage"`
	ContactID string `form:"contact_id"`
	OwnerID   string `form:"owner_id"`
}

type DealListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.Deal `json:"items"`
}

func (s *DealService) List(orgID string, req *DealListRequest) (*DealListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Deal{}).Where("organization_id = ?", orgID)

	if req.Search != "" {
		query = query.Where("title LIKE ?", "%"+req.Search+"%")
	}
	if req.Stage != "" {
		query = query.Where("stage = ?", req.Stage)
	}
	if req.ContactID != "" {
		query = query.Where("contact_id = ?", req.ContactID)
	}
	if req.OwnerID != "" {
		query = query.Where("owner_id = ?", req.OwnerID)
	}

	var total int64
	query.Count(&total)

	var items []models.Deal
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Contact").Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &DealListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

func (s *DealService) GetByID(orgID, id string) (*models.Deal, error) {
	var deal models.Deal
	if err := s.db.Preload("Contact").Where("id = ? AND organization_id = ?", id, orgID).First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("deal not found")
		}
		return nil, err
	}
	return &deal, nil
}

type CreateDealRequest struct {
	Title             string     `json:"title" binding:"required"`
	ContactID         *string    `json:"contact_id"`
	Stage             string     `json:"stage"`
	Amount            float64    `json:"amount"`
	Currency          string     `json:"currency"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Notes             string     `json:"notes"`
	OwnerID           string     `json:"owner_id"`
}

func (s *DealService) Create(orgID string, req *CreateDealRequest, creatorID string) (*models.Deal, error) {
	stage := req.Stage
	if stage == "" {
		stage = models.DealStageInquiry
	}
	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}
	owner := req.OwnerID
	if owner == "" {
		owner = creatorID
	}

	// a linked contact must belong to the same tenant
	if req.ContactID != nil {
		var count int64
		s.db.Model(&models.Contact{}).Where("id = ? AND organization_id = ?", *req.ContactID, orgID).Count(&count)
		if count == 0 {
			return nil, response.NewNotFound("contact not found")
		}
	}

	deal := models.Deal{
		OrganizationID:    orgID,
		ContactID:         req.ContactID,
		Title:             req.Title,
		Stage:             stage,
		Amount:            req.Amount,
		Currency:          currency,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Notes:             req.Notes,
		OwnerID:           owner,
	}
	if err := s.db.Create(&deal).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

type UpdateDealRequest struct {
	Title             *string    `json:"title"`
	ContactID         *string    `json:"contact_id"`
	Stage             *string    `json:"stage"`
	Amount            *float64   `json:"amount"`
	Currency          *string    `json:"currency"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Notes             *string    `json:"notes"`
	OwnerID           *string    `json:"owner_id"`
}

func (s *DealService) Update(orgID, id string, req *UpdateDealRequest) (*models.Deal, error) {
	deal, err := s.GetByID(orgID, id)
	if err != nil {
		return nil, err
	}

	if req.ContactID != nil {
		var count int64
		s.db.Model(&models.Contact{}).Where("id = ? AND organization_id = ?", *req.ContactID, orgID).Count(&count)
		if count == 0 {
			return nil, response.NewNotFound("contact not found")
		}
		deal.ContactID = req.ContactID
	}
	if req.Title != nil {
		deal.Title = *req.Title
	}
	if req.Stage != nil {
		deal.Stage = *req.Stage
	}
	if req.Amount != nil {
		deal.Amount = *req.Amount
	}
	if req.Currency != nil {
		deal.Currency = *req.Currency
	}
	if req.ExpectedCloseDate != nil {
		deal.ExpectedCloseDate = req.ExpectedCloseDate
	}
	if req.Notes != nil {
		deal.Notes = *req.Notes
	}
	if req.OwnerID != nil {
		deal.OwnerID = *req.OwnerID
	}

	if err := s.db.Save(deal).Error; err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *DealService) Delete(orgID, id string) error {
	result := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.Deal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("deal not found")
	}
	return nil
}
