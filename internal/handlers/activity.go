package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/middleware"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{
		activityService: services.NewActivityService(db),
	}
}

// List returns paginated activities of the caller's organization
// GET /api/activities
func (h *ActivityHandler) List(c *gin.Context) {
	var req services.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.activityService.List(middleware.GetOrgID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns an activity by ID
// GET /api/activities/:id
func (h *ActivityHandler) GetByID(c *gin.Context) {
	activity, err := h.activityService.GetByID(middleware.GetOrgID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, activity)
}

// Create creates a new activity
// POST /api/activities
func (h *ActivityHandler) Create(c *gin.Context) {
	var req services.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	activity, err := h.activityService.Create(middleware.GetOrgID(c), &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, activity)
}

// Update patches an activity
// PUT /api/activities/:id
func (h *ActivityHandler) Update(c *gin.Context) {
	var req services.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	activity, err := h.activityService.Update(middleware.GetOrgID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, activity)
}

// Complete marks an activity as done
// POST /api/activities/:id/complete
func (h *ActivityHandler) Complete(c *gin.Context) {
	activity, err := h.activityService.Complete(middleware.GetOrgID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, activity)
}

// Delete removes an activity
// DELETE /api/activities/:id
func (h *ActivityHandler) Delete(c *gin.Context) {
	if err := h.activityService.Delete(middleware.GetOrgID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "activity deleted successfully"})
}
