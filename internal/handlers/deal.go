package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/middleware"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type DealHandler struct {
	dealService *services.DealService
}

func NewDealHandler(db *gorm.DB) *DealHandler {
	return &DealHandler{
		dealService: services.NewDealService(db),
	}
}

// List returns paginated deals of the caller's organization
// GET /api/deals
func (h *DealHandler) List(c *gin.Context) {
	var req services.DealListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.dealService.List(middleware.GetOrgID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a deal by ID
// GET /api/deals/:id
func (h *DealHandler) GetByID(c *gin.Context) {
	deal, err := h.dealService.GetByID(middleware.GetOrgID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, deal)
}

// Create creates a new deal
// POST /api/deals
func (h *DealHandler) Create(c *gin.Context) {
	var req services.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Create(middleware.GetOrgID(c), &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, deal)
}

// Update patches a deal
// PUT /api/deals/:id
func (h *DealHandler) Update(c *gin.Context) {
	var req services.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Update(middleware.GetOrgID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, deal)
}

// Delete removes a deal
// DELETE /api/deals/:id
func (h *DealHandler) Delete(c *gin.Context) {
	if err := h.dealService.Delete(middleware.GetOrgID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "deal deleted successfully"})
}
