package services

import (
	"errors"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

// ContactService handles tenant-scoped contact CRUD. Every lookup matches on
// both id and organization id; a row with the right id but wrong org behaves
// exactly like a missing row, so existence never leaks across tenants.
type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

type ContactListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Source   string `form:"source"`
	OwnerID  string `form:"owner_id"`
}

type ContactListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Contact `json:"items"`
}

func (s *ContactService) List(orgID string, req *ContactListRequest) (*ContactListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Contact{}).Where("organization_id = ?", orgID)

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR company LIKE ?", like, like, like, like)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Source != "" {
		query = query.Where("source = ?", req.Source)
	}
	if req.OwnerID != "" {
		query = query.Where("owner_id = ?", req.OwnerID)
	}

	var total int64
	query.Count(&total)

	var items []models.Contact
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &ContactListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

func (s *ContactService) GetByID(orgID, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := s.db.Where("id = ? AND organization_id = ?", id, orgID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("contact not found")
		}
		return nil, err
	}
	return &contact, nil
}

type CreateContactRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	OwnerID   string `json:"owner_id"`
}

// Create stamps the effective organization server-side. The request body
// carries no organization field, so a tenant cannot write into another
// tenant's space by supplying an arbitrary id.
func (s *ContactService) Create(orgID string, req *CreateContactRequest, creatorID string) (*models.Contact, error) {
	status := req.Status
	if status == "" {
		status = models.ContactStatusLead
	}
	owner := req.OwnerID
	if owner == "" {
		owner = creatorID
	}

	contact := models.Contact{
		OrganizationID: orgID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          normalizeEmail(req.Email),
		Phone:          req.Phone,
		Company:        req.Company,
		Position:       req.Position,
		Source:         req.Source,
		Status:         status,
		Notes:          req.Notes,
		OwnerID:        owner,
	}
	if err := s.db.Create(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

type UpdateContactRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	Position  *string `json:"position"`
	Source    *string `json:"source"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
	OwnerID   *string `json:"owner_id"`
}

func (s *ContactService) Update(orgID, id string, req *UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.GetByID(orgID, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		contact.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		contact.LastName = *req.LastName
	}
	if req.Email != nil {
		contact.Email = normalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Company != nil {
		contact.Company = *req.Company
	}
	if req.Position != nil {
		contact.Position = *req.Position
	}
	if req.Source != nil {
		contact.Source = *req.Source
	}
	if req.Status != nil {
		contact.Status = *req.Status
	}
	if req.Notes != nil {
		contact.Notes = *req.Notes
	}
	if req.OwnerID != nil {
		contact.OwnerID = *req.OwnerID
	}

	if err := s.db.Save(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) Delete(orgID, id string) error {
	result := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("contact not found")
	}
	return nil
}
