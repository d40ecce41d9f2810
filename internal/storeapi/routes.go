package storeapi

import (
	"github.com/labstack/echo/v4"

	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/checkout"
	"github.com/talkincode/toughstore/internal/webserver"
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
	appConfig   *config.AppConfig
	checkoutSvc *checkout.Service
)

// InitRouter registers all storefront endpoints on the web server.
func InitRouter(cfg *config.AppConfig, svc *checkout.Service) {
	appConfig = cfg
	checkoutSvc = svc

	registerAuthRoutes()
	registerCatalogRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
	registerOrderRoutes()
	registerProfileRoutes()
}
