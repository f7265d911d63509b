package services

import (
	"github.com/guestdesk/crm-backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// MaintenanceScheduler runs daily housekeeping: system-log retention cleanup
// and stale-pending-invitation expiry. Both retention windows come from
// system_configs so they can be tuned at runtime.
type MaintenanceScheduler struct {
	cron        *cron.Cron
	configSvc   *SystemConfigService
	logSvc      *SystemLogService
	invitations *InvitationService
}

func NewMaintenanceScheduler(db *gorm.DB, invitations *InvitationService) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:        cron.New(),
		configSvc:   NewSystemConfigService(db),
		logSvc:      NewSystemLogService(db),
		invitations: invitations,
	}
}

// Start registers the daily job and runs one pass immediately.
func (m *MaintenanceScheduler) Start() error {
	if _, err := m.cron.AddFunc("0 3 * * *", m.run); err != nil {
		return err
	}
	m.cron.Start()

	go m.run()
	return nil
}

func (m *MaintenanceScheduler) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *MaintenanceScheduler) run() {
	retentionDays := m.configSvc.GetInt("log_retention_days", 30)
	if deleted, err := m.logSvc.CleanupOldLogs(retentionDays); err != nil {
		logger.Error().Err(err).Msg("system log cleanup failed")
	} else if deleted > 0 {
		logger.Infof("[Maintenance] Cleaned up %d logs older than %d days", deleted, retentionDays)
	}

	expiryDays := m.configSvc.GetInt("invitation_expiry_days", 30)
	if expired, err := m.invitations.ExpireStale(expiryDays); err != nil {
		logger.Error().Err(err).Msg("invitation expiry sweep failed")
	} else if expired > 0 {
		logger.Infof("[Maintenance] Expired %d pending invitations older than %d days", expired, expiryDays)
	}
}
