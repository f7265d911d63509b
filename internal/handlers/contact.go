package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/middleware"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{
		contactService: services.NewContactService(db),
	}
}

// List returns paginated contacts of the caller's organization
// GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	var req services.ContactListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contactService.List(middleware.GetOrgID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a contact by ID
// GET /api/contacts/:id
func (h *ContactHandler) GetByID(c *gin.Context) {
	contact, err := h.contactService.GetByID(middleware.GetOrgID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, contact)
}

// Create creates a new contact
// POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req services.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	contact, err := h.contactService.Create(middleware.GetOrgID(c), &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, contact)
}

// Update patches a contact
// PUT /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	var req services.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	contact, err := h.contactService.Update(middleware.GetOrgID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, contact)
}

// Delete removes a contact
// DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contactService.Delete(middleware.GetOrgID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "contact deleted successfully"})
}
