package storeapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/checkout"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listMyOrders)
	webserver.ApiGET("/orders/:id", getMyOrder)
}

type orderView struct {
	domain.Order
	Ref   string             `json:"ref"`
	Items []domain.OrderItem `json:"items"`
}

func listMyOrders(c echo.Context) error {
	orders := store.NewGormOrderRepository(GetDB(c))
	rows, err := orders.ListByUser(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", nil)
	}

	views := make([]orderView, 0, len(rows))
	for _, o := range rows {
		items, err := orders.ItemsByOrder(c.Request().Context(), o.ID)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order items", nil)
		}
		views = append(views, orderView{Order: o, Ref: checkout.OrderRef(o.ID), Items: items})
	}
	return ok(c, views)
}

// getMyOrder doubles as the order confirmation view; an order id that does
// not belong to the signed-in user reads as not found.
func getMyOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	orders := store.NewGormOrderRepository(GetDB(c))
	order, err := orders.GetByUserAndID(c.Request().Context(), webserver.CurrentUserID(c), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", nil)
	}

	items, err := orders.ItemsByOrder(c.Request().Context(), order.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order items", nil)
	}
	return ok(c, orderView{Order: *order, Ref: checkout.OrderRef(order.ID), Items: items})
}
