package main

import (
	"github.com/guestdesk/crm-backend/internal/config"
	"github.com/guestdesk/crm-backend/internal/handlers"
	"github.com/guestdesk/crm-backend/internal/models"
	"github.com/guestdesk/crm-backend/internal/services"
	"github.com/guestdesk/crm-backend/internal/utils"
	"github.com/guestdesk/crm-backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	accessService     *services.AccessService
	invitationService *services.InvitationService
	emailService      *services.EmailService
	taskQueue         services.TaskQueue
	worker            *services.Worker
	maintenance       *services.MaintenanceScheduler
	authHandler       *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	emailService := services.NewEmailService(models.GetDB())
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(emailService.ProcessEmailTask)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(emailService.ProcessEmailTask)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start email worker")
			}
		}
	}

	invitationService := services.NewInvitationService(models.GetDB(), taskQueue)

	// Daily maintenance: log retention and invitation expiry
	maintenance := services.NewMaintenanceScheduler(models.GetDB(), invitationService)
	if err := maintenance.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start maintenance scheduler")
	}

	// Create platform super admin
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg, invitationService)
	if err := authHandler.CreateSuperAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create super admin user")
	}

	return &appServices{
		accessService:     services.NewAccessService(models.GetDB()),
		invitationService: invitationService,
		emailService:      emailService,
		taskQueue:         taskQueue,
		worker:            worker,
		maintenance:       maintenance,
		authHandler:       authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.maintenance.Stop()
	logger.Info().Msg("Maintenance scheduler stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
