package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type SystemConfigHandler struct {
	configService *services.SystemConfigService
}

func NewSystemConfigHandler(db *gorm.DB) *SystemConfigHandler {
	return &SystemConfigHandler{
		configService: services.NewSystemConfigService(db),
	}
}

// GetEmailConfig returns the outbound email settings
// GET /api/system/config/email
func (h *SystemConfigHandler) GetEmailConfig(c *gin.Context) {
	cfg, err := h.configService.GetGroup("email")
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	// never return the smtp password to clients
	if _, ok := cfg["email_password"]; ok {
		cfg["email_password"] = "***"
	}
	response.Success(c, cfg)
}

type updateConfigRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

// UpdateEmailConfig updates outbound email settings
// PUT /api/system/config/email
func (h *SystemConfigHandler) UpdateEmailConfig(c *gin.Context) {
	h.updateGroup(c, map[string]bool{
		"email_enabled": true, "email_host": true, "email_port": true,
		"email_username": true, "email_password": true, "email_from": true,
		"email_use_tls": true,
	})
}

// GetInvitationConfig returns invitation-related settings
// GET /api/system/config/invitations
func (h *SystemConfigHandler) GetInvitationConfig(c *gin.Context) {
	cfg, err := h.configService.GetGroup("invitations")
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, cfg)
}

// UpdateInvitationConfig updates invitation-related settings
// PUT /api/system/config/invitations
func (h *SystemConfigHandler) UpdateInvitationConfig(c *gin.Context) {
	h.updateGroup(c, map[string]bool{
		"invitation_expiry_days": true, "invitation_base_url": true,
	})
}

func (h *SystemConfigHandler) updateGroup(c *gin.Context, allowed map[string]bool) {
	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	for key, value := range req.Values {
		if !allowed[key] {
			response.BadRequest(c, "unknown config key: "+key)
			return
		}
		if key == "email_password" && value == "***" {
			continue // masked placeholder, keep the stored value
		}
		if err := h.configService.Set(key, value); err != nil {
			response.ServerError(c, err.Error())
			return
		}
	}

	response.Success(c, gin.H{"message": "configuration updated"})
}
