package services

import (
	"errors"

	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

type TemplateListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Type     string `form:"type"`
	Search   string `form:"search"`
}

type TemplateListResponse struct {
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	Items    []models.DocumentTemplate `json:"items"`
}

func (s *TemplateService) List(orgID string, req *TemplateListRequest) (*TemplateListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.DocumentTemplate{}).Where("organization_id = ?", orgID)

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.Search != "" {
		query = query.Where("name LIKE ?", "%"+req.Search+"%")
	}

	var total int64
	query.Count(&total)

	var items []models.DocumentTemplate
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &TemplateListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

func (s *TemplateService) GetByID(orgID, id string) (*models.DocumentTemplate, error) {
	var tmpl models.DocumentTemplate
	if err := s.db.Where("id = ? AND organization_id = ?", id, orgID).First(&tmpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("template not found")
		}
		return nil, err
	}
	return &tmpl, nil
}

type CreateTemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Variables   string `json:"variables"`
}

func (s *TemplateService) Create(orgID string, req *CreateTemplateRequest) (*models.DocumentTemplate, error) {
	typ := req.Type
	if typ == "" {
		typ = models.TemplateTypeOffer
	}

	tmpl := models.DocumentTemplate{
		OrganizationID: orgID,
		Name:           req.Name,
		Type:           typ,
		Description:    req.Description,
		Content:        req.Content,
		Variables:      req.Variables,
	}
	if err := s.db.Create(&tmpl).Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Variables   *string `json:"variables"`
}

func (s *TemplateService) Update(orgID, id string, req *UpdateTemplateRequest) (*models.DocumentTemplate, error) {
	tmpl, err := s.GetByID(orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tmpl.Name = *req.Name
	}
	if req.Type != nil {
		tmpl.Type = *req.Type
	}
	if req.Description != nil {
		tmpl.Description = *req.Description
	}
	if req.Content != nil {
		tmpl.Content = *req.Content
	}
	if req.Variables != nil {
		tmpl.Variables = *req.Variables
	}

	if err := s.db.Save(tmpl).Error; err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *TemplateService) Delete(orgID, id string) error {
	result := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.DocumentTemplate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("template not found")
	}
	return nil
}
