package services

import (
	"strconv"

	"github.com/guestdesk/crm-backend/internal/models"
	"gorm.io/gorm"
)

type SystemConfigService struct {
	db *gorm.DB
}

func NewSystemConfigService(db *gorm.DB) *SystemConfigService {
	return &SystemConfigService{db: db}
}

// Get returns the value for key or "" when unset.
func (s *SystemConfigService) Get(key string) string {
	var cfg models.SystemConfig
	if err := s.db.Where("`key` = ?", key).First(&cfg).Error; err != nil {
		return ""
	}
	return cfg.Value
}

// GetWithDefault returns the value for key, or def when unset/empty.
func (s *SystemConfigService) GetWithDefault(key, def string) string {
	if v := s.Get(key); v != "" {
		return v
	}
	return def
}

// GetInt returns the integer value for key, or def on absence or parse error.
func (s *SystemConfigService) GetInt(key string, def int) int {
	v := s.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Set upserts a config value.
func (s *SystemConfigService) Set(key, value string) error {
	var cfg models.SystemConfig
	err := s.db.Where("`key` = ?", key).First(&cfg).Error
	if err != nil {
		cfg = models.SystemConfig{Key: key, Value: value}
		return s.db.Create(&cfg).Error
	}
	cfg.Value = value
	return s.db.Save(&cfg).Error
}

// GetGroup returns all configs in a group, keyed by config key.
func (s *SystemConfigService) GetGroup(group string) (map[string]string, error) {
	var configs []models.SystemConfig
	if err := s.db.Where("`group` = ?", group).Find(&configs).Error; err != nil {
		return nil, err
	}

	out := make(map[string]string, len(configs))
	for _, c := range configs {
		out[c.Key] = c.Value
	}
	return out, nil
}
