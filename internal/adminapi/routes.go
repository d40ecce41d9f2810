package adminapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/notify"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"

	evbus "github.com/asaskevich/EventBus"
)

var (
	ok    = webserver.Ok
	fail  = webserver.Fail
	paged = webserver.Paged
	GetDB = webserver.GetDB
)

func parseIDParam(c echo.Context, name string) (int64, error) {
	return webserver.ParseIDParam(c, name)
}

func parsePagination(c echo.Context) (int, int) {
	return webserver.ParsePagination(c)
}

var (
	appConfig *config.AppConfig
	eventBus  evbus.Bus
)

// InitRouter registers all back-office endpoints on the web server.
func InitRouter(cfg *config.AppConfig, bus evbus.Bus) {
	appConfig = cfg
	eventBus = bus

	registerAdminAuthRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerOrderRoutes()
	registerCustomerRoutes()
	registerDashboardRoutes()
	registerSettingsRoutes()
}

func publishStatusChanged(order domain.Order) {
	if eventBus == nil {
		return
	}
	eventBus.Publish(notify.TopicOrderStatusChanged, notify.StatusEvent{Order: order})
}

// oprLog records an admin action for the daily-purged operation log.
func oprLog(c echo.Context, action, desc string) {
	entry := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   "admin",
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := GetDB(c).Create(&entry).Error; err != nil {
		zap.L().Debug("opr log write failed", zap.Error(err))
	}
}
