package main

import (
	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/config"
	"github.com/guestdesk/crm-backend/internal/handlers"
	"github.com/guestdesk/crm-backend/internal/middleware"
	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(cfg.Server.AuthRateLimit)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	db := models.GetDB()

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authLimiter.Middleware(), svc.authHandler.Signup)
			auth.POST("/login", authLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/refresh", authLimiter.Middleware(), svc.authHandler.Refresh)
			auth.GET("/google", svc.authHandler.GoogleLogin)
			auth.GET("/google/callback", svc.authHandler.GoogleCallback)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
			auth.POST("/logout", svc.authHandler.Logout)
		}

		// Authenticated routes: valid JWT, no tenant gate yet. Organization
		// creation and selection must work for users who have no org at all.
		authed := api.Group("")
		authed.Use(middleware.AuthRequired())
		{
			authed.POST("/auth/change-password", svc.authHandler.ChangePassword)

			orgHandler := handlers.NewOrganizationHandler(db)
			authed.POST("/organizations", middleware.TenantOptional(svc.accessService), orgHandler.Create)
			authed.GET("/organizations", middleware.TenantOptional(svc.accessService), orgHandler.List)
			authed.POST("/organizations/:id/switch", middleware.TenantOptional(svc.accessService), orgHandler.Switch)
			authed.PUT("/organizations/:id/active", middleware.SuperAdminRequired(), orgHandler.SetActive)
			authed.GET("/auth/me", middleware.TenantOptional(svc.accessService), svc.authHandler.GetCurrentUser)
		}

		// Tenant routes: the access gate runs on every request
		tenant := api.Group("")
		tenant.Use(middleware.AuthRequired(), middleware.TenantRequired(svc.accessService), middleware.AuditLog())
		{
			orgHandler := handlers.NewOrganizationHandler(db)
			tenant.GET("/organizations/:id", orgHandler.GetByID)
			tenant.PUT("/organizations/:id", middleware.OrgAdminRequired(), orgHandler.Update)

			// Contacts
			contactHandler := handlers.NewContactHandler(db)
			tenant.GET("/contacts", contactHandler.List)
			tenant.GET("/contacts/:id", contactHandler.GetByID)
			tenant.POST("/contacts", contactHandler.Create)
			tenant.PUT("/contacts/:id", contactHandler.Update)
			tenant.DELETE("/contacts/:id", contactHandler.Delete)

			// Deals
			dealHandler := handlers.NewDealHandler(db)
			tenant.GET("/deals", dealHandler.List)
			tenant.GET("/deals/:id", dealHandler.GetByID)
			tenant.POST("/deals", dealHandler.Create)
			tenant.PUT("/deals/:id", dealHandler.Update)
			tenant.DELETE("/deals/:id", dealHandler.Delete)

			// Activities
			activityHandler := handlers.NewActivityHandler(db)
			tenant.GET("/activities", activityHandler.List)
			tenant.GET("/activities/:id", activityHandler.GetByID)
			tenant.POST("/activities", activityHandler.Create)
			tenant.PUT("/activities/:id", activityHandler.Update)
			tenant.POST("/activities/:id/complete", activityHandler.Complete)
			tenant.DELETE("/activities/:id", activityHandler.Delete)

			// Document templates
			templateHandler := handlers.NewTemplateHandler(db)
			tenant.GET("/templates", templateHandler.List)
			tenant.GET("/templates/:id", templateHandler.GetByID)
			tenant.POST("/templates", templateHandler.Create)
			tenant.PUT("/templates/:id", templateHandler.Update)
			tenant.DELETE("/templates/:id", templateHandler.Delete)

			// Members and invitations (org admin only)
			memberHandler := handlers.NewMemberHandler(db)
			members := tenant.Group("/members", middleware.OrgAdminRequired())
			{
				members.GET("", memberHandler.List)
				members.POST("", memberHandler.Add)
				members.PUT("/:userId/role", memberHandler.SetRole)
				members.PUT("/:userId/active", memberHandler.SetActive)
			}

			invitationHandler := handlers.NewInvitationHandler(svc.invitationService)
			invitations := tenant.Group("/invitations", middleware.OrgAdminRequired())
			{
				invitations.GET("", invitationHandler.List)
				invitations.POST("", invitationHandler.Create)
				invitations.DELETE("/:id", invitationHandler.Cancel)
				invitations.POST("/:id/resend", invitationHandler.Resend)
			}
		}

		// Super admin routes
		admin := api.Group("/system")
		admin.Use(middleware.AuthRequired(), middleware.SuperAdminRequired(), middleware.AuditLog())
		{
			configHandler := handlers.NewSystemConfigHandler(db)
			admin.GET("/config/email", configHandler.GetEmailConfig)
			admin.PUT("/config/email", configHandler.UpdateEmailConfig)
			admin.GET("/config/invitations", configHandler.GetInvitationConfig)
			admin.PUT("/config/invitations", configHandler.UpdateInvitationConfig)

			logHandler := handlers.NewSystemLogHandler(db)
			admin.GET("/logs", logHandler.List)
			admin.GET("/logs/modules", logHandler.GetModules)
			admin.GET("/logs/retention", logHandler.GetRetentionDays)
			admin.PUT("/logs/retention", logHandler.SetRetentionDays)
			admin.POST("/logs/cleanup", logHandler.Cleanup)
		}
	}
}
