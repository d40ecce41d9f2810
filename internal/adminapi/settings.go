package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
)

func registerSettingsRoutes() {
	webserver.AdminGET("/settings", listSettings)
	webserver.AdminPUT("/settings", updateSettings)
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	err := GetDB(c).Order("type asc, sort asc").Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

type settingPayload struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type settingsPayload struct {
	Settings []settingPayload `json:"settings"`
}

// updateSettings upserts each submitted (type, name) pair. Unknown pairs are
// created so new setting keys need no migration.
func updateSettings(c echo.Context) error {
	var payload settingsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", nil)
	}
	if len(payload.Settings) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_SETTINGS", "No settings submitted", nil)
	}

	db := GetDB(c)
	for _, item := range payload.Settings {
		item.Type = strings.TrimSpace(item.Type)
		item.Name = strings.TrimSpace(item.Name)
		if item.Type == "" || item.Name == "" {
			return fail(c, http.StatusBadRequest, "INVALID_SETTING", "Setting type and name are required", nil)
		}
		var row domain.SysConfig
		err := db.Where("type = ? AND name = ?", item.Type, item.Name).First(&row).Error
		switch {
		case err == nil:
			err = db.Model(&domain.SysConfig{}).
				Where("id = ?", row.ID).
				Update("value", item.Value).Error
		case err == gorm.ErrRecordNotFound:
			err = db.Create(&domain.SysConfig{
				ID:        common.UUIDint64(),
				Type:      item.Type,
				Name:      item.Name,
				Value:     item.Value,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}).Error
		}
		if err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save setting", err.Error())
		}
	}
	oprLog(c, "settings.update", "updated system settings")
	return ok(c, map[string]int{"updated": len(payload.Settings)})
}
