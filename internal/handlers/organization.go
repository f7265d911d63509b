package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/middleware"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: services.NewOrganizationService(db),
	}
}

// Create provisions a new organization with the caller as admin
// POST /api/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req services.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user := middleware.GetUser(c)
	org, err := h.orgService.Create(&req, user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, org)
}

// List returns the organizations the caller can select
// GET /api/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.orgService.ListSelectable(middleware.GetUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, orgs)
}

// GetByID returns one organization
// GET /api/organizations/:id
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	org, err := h.orgService.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, org)
}

// Update patches an organization's profile
// PUT /api/organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req services.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	org, err := h.orgService.Update(c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, org)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive archives or restores an organization
// PUT /api/organizations/:id/active
func (h *OrganizationHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	org, err := h.orgService.SetActive(c.Param("id"), *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, org)
}

// Switch changes a super admin's viewing context
// POST /api/organizations/:id/switch
func (h *OrganizationHandler) Switch(c *gin.Context) {
	user := middleware.GetUser(c)
	if err := h.orgService.SwitchCurrent(user, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"current_organization_id": c.Param("id"),
	})
}
