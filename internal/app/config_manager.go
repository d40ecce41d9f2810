package app

import (
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
)

// ConfigManager reads and writes runtime settings stored in sys_config.
// Values are always read fresh so admin edits take effect without restart.
type ConfigManager struct {
	app DBProvider
}

func NewConfigManager(app DBProvider) *ConfigManager {
	return &ConfigManager{app: app}
}

func (m *ConfigManager) getValue(category, name string) (string, bool) {
	var row domain.SysConfig
	err := m.app.DB().
		Where("type = ? AND name = ?", category, name).
		First(&row).Error
	if err != nil {
		return "", false
	}
	return row.Value, true
}

// GetString returns the setting value, empty when unset.
func (m *ConfigManager) GetString(category, name string) string {
	v, _ := m.getValue(category, name)
	return v
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	v, ok := m.getValue(category, name)
	if !ok {
		return 0
	}
	return cast.ToInt64(v)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return int(m.GetInt64(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	v, ok := m.getValue(category, name)
	if !ok {
		return false
	}
	return cast.ToBool(v)
}

// SetValue upserts a setting.
func (m *ConfigManager) SetValue(category, name, value string) error {
	db := m.app.DB()
	var row domain.SysConfig
	err := db.Where("type = ? AND name = ?", category, name).First(&row).Error
	if err == nil {
		return db.Model(&domain.SysConfig{}).
			Where("id = ?", row.ID).
			Update("value", value).Error
	}
	err = db.Create(&domain.SysConfig{
		ID:        common.UUIDint64(),
		Type:      category,
		Name:      name,
		Value:     value,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("failed to save setting",
			zap.String("type", category), zap.String("name", name), zap.Error(err))
	}
	return err
}
