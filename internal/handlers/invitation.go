package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/middleware"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(invitations *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitations}
}

// Create sends an invitation into the caller's organization
// POST /api/invitations
func (h *InvitationHandler) Create(c *gin.Context) {
	var req services.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// org admins always invite into their own organization
	orgID := middleware.GetOrgID(c)
	req.OrganizationID = &orgID

	invitation, err := h.invitationService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, invitation)
}

// List returns the caller's organization's invitations
// GET /api/invitations
func (h *InvitationHandler) List(c *gin.Context) {
	var req services.InvitationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.invitationService.List(middleware.GetOrgID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Cancel cancels a pending invitation
// DELETE /api/invitations/:id
func (h *InvitationHandler) Cancel(c *gin.Context) {
	if err := h.invitationService.Cancel(middleware.GetOrgID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "invitation cancelled"})
}

// Resend re-triggers delivery of a pending invitation
// POST /api/invitations/:id/resend
func (h *InvitationHandler) Resend(c *gin.Context) {
	if err := h.invitationService.Resend(middleware.GetOrgID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "invitation resent"})
}
