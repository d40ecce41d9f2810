package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/metrics"
)

func registerOrderRoutes() {
	webserver.AdminGET("/orders", listOrders)
	webserver.AdminGET("/orders/:id", getOrder)
	webserver.AdminPUT("/orders/:id/status", putOrderStatus)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := store.OrderFilter{
		Status:    strings.TrimSpace(c.QueryParam("status")),
		SortCol:   c.QueryParam("sort"),
		SortOrder: c.QueryParam("order"),
		Page:      page,
		PageSize:  pageSize,
	}
	if s := c.QueryParam("starttime"); s != "" {
		t, err := dateparse.ParseLocal(s)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse starttime", nil)
		}
		filter.Since = t
	}
	if s := c.QueryParam("endtime"); s != "" {
		t, err := dateparse.ParseLocal(s)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse endtime", nil)
		}
		filter.Until = t
	}

	orders := store.NewGormOrderRepository(GetDB(c))
	rows, total, err := orders.List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

type adminOrderView struct {
	domain.Order
	Items    []domain.OrderItem `json:"items"`
	Customer *domain.Profile    `json:"customer,omitempty"`
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	db := GetDB(c)
	orders := store.NewGormOrderRepository(db)
	order, err := orders.GetByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	items, err := orders.ItemsByOrder(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order items", err.Error())
	}

	view := adminOrderView{Order: *order, Items: items}
	profiles := store.NewGormProfileRepository(db)
	if customer, err := profiles.GetByID(c.Request().Context(), order.UserId); err == nil {
		view.Customer = customer
	}
	return ok(c, view)
}

type statusPayload struct {
	Status string `json:"status" form:"status"`
}

func putOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}
	if !domain.ValidOrderStatus(payload.Status) {
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status",
			map[string]interface{}{"allowed": domain.OrderStatuses})
	}

	orders := store.NewGormOrderRepository(GetDB(c))
	order, err := orders.GetByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	if err := orders.SetStatus(c.Request().Context(), id, payload.Status); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update status", err.Error())
	}

	metrics.CounterIncr(metrics.StoreOrderStatusSet)
	order.Status = payload.Status
	publishStatusChanged(*order)
	oprLog(c, "order.status", payload.Status)
	return ok(c, order)
}
