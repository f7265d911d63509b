package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/middleware"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type MemberHandler struct {
	membershipService *services.MembershipService
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{
		membershipService: services.NewMembershipService(db),
	}
}

// List returns the members of the caller's organization
// GET /api/members
func (h *MemberHandler) List(c *gin.Context) {
	var req services.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.membershipService.List(middleware.GetOrgID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Add attaches an existing user to the caller's organization
// POST /api/members
func (h *MemberHandler) Add(c *gin.Context) {
	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, err := h.membershipService.Add(middleware.GetOrgID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, membership)
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole changes a member's role within the organization
// PUT /api/members/:userId/role
func (h *MemberHandler) SetRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, err := h.membershipService.SetRole(middleware.GetOrgID(c), c.Param("userId"), req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, membership)
}

// SetActive deactivates or reactivates a membership
// PUT /api/members/:userId/active
func (h *MemberHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, err := h.membershipService.SetActive(middleware.GetOrgID(c), c.Param("userId"), *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, membership)
}
