package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/pkg/response"
	"gorm.io/gorm"
)

type SystemLogHandler struct {
	systemLogService *services.SystemLogService
	configService    *services.SystemConfigService
}

func NewSystemLogHandler(db *gorm.DB) *SystemLogHandler {
	return &SystemLogHandler{
		systemLogService: services.NewSystemLogService(db),
		configService:    services.NewSystemConfigService(db),
	}
}

// List returns paginated system logs
// GET /api/system/logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.systemLogService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// GetModules returns the distinct modules present in the logs
// GET /api/system/logs/modules
func (h *SystemLogHandler) GetModules(c *gin.Context) {
	modules, err := h.systemLogService.GetModules()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"modules": modules})
}

// GetRetentionDays returns the current log retention window
// GET /api/system/logs/retention
func (h *SystemLogHandler) GetRetentionDays(c *gin.Context) {
	response.Success(c, gin.H{
		"retention_days": h.configService.GetInt("log_retention_days", 30),
	})
}

type setRetentionRequest struct {
	RetentionDays int `json:"retention_days" binding:"required,min=1"`
}

// SetRetentionDays updates the log retention window
// PUT /api/system/logs/retention
func (h *SystemLogHandler) SetRetentionDays(c *gin.Context) {
	var req setRetentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.configService.Set("log_retention_days", strconv.Itoa(req.RetentionDays)); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"retention_days": req.RetentionDays})
}

// Cleanup deletes logs older than the retention window right now
// POST /api/system/logs/cleanup
func (h *SystemLogHandler) Cleanup(c *gin.Context) {
	retention := h.configService.GetInt("log_retention_days", 30)
	deleted, err := h.systemLogService.CleanupOldLogs(retention)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": deleted, "retention_days": retention})
}
