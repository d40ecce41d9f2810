package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerCustomerRoutes() {
	webserver.AdminGET("/customers", listCustomers)
	webserver.AdminGET("/customers/:id", getCustomer)
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)
	profiles := store.NewGormProfileRepository(GetDB(c))
	rows, total, err := profiles.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

type customerView struct {
	domain.Profile
	Orders []domain.Order `json:"orders"`
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	db := GetDB(c)
	profiles := store.NewGormProfileRepository(db)
	profile, err := profiles.GetByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	orders := store.NewGormOrderRepository(db)
	history, err := orders.ListByUser(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer orders", err.Error())
	}
	return ok(c, customerView{Profile: *profile, Orders: history})
}
