package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/middleware"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{
		templateService: services.NewTemplateService(db),
	}
}

// List returns the document templates of the caller's organization
// GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
	var req services.TemplateListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.templateService.List(middleware.GetOrgID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a template by ID
// GET /api/templates/:id
func (h *TemplateHandler) GetByID(c *gin.Context) {
	template, err := h.templateService.GetByID(middleware.GetOrgID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, template)
}

// Create creates a new document template
// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req services.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Create(middleware.GetOrgID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, template)
}

// Update patches a document template
// PUT /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	var req services.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Update(middleware.GetOrgID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, template)
}

// Delete removes a document template
// DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templateService.Delete(middleware.GetOrgID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "template deleted successfully"})
}
