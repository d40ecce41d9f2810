package storeapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart", postCartAdd)
	webserver.ApiPUT("/cart/:id", putCartQuantity)
	webserver.ApiDELETE("/cart/:id", deleteCartItem)
}

func cartService(c echo.Context) *store.CartService {
	db := GetDB(c)
	return store.NewCartService(
		store.NewGormCartRepository(db),
		store.NewGormProductRepository(db),
	)
}

func getCart(c echo.Context) error {
	lines, err := cartService(c).Lines(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query cart", nil)
	}
	return ok(c, map[string]interface{}{
		"items": lines,
		"total": store.CartTotal(lines),
	})
}

type cartAddPayload struct {
	ProductId int64 `json:"product_id,string" validate:"required"`
}

func postCartAdd(c echo.Context) error {
	var payload cartAddPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "product_id is required", nil)
	}

	item, err := cartService(c).Add(c.Request().Context(), webserver.CurrentUserID(c), payload.ProductId)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fail(c, http.StatusBadRequest, "NOT_FOUND", "Product does not exist", nil)
	case errors.Is(err, store.ErrOutOfStock):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", "Not enough stock for this product", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add to cart", nil)
	}
	return ok(c, item)
}

type cartQuantityPayload struct {
	Quantity int `json:"quantity"`
}

func putCartQuantity(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}
	var payload cartQuantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", nil)
	}
	if !ownsCartItem(c, id) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Cart item not found", nil)
	}

	err = cartService(c).UpdateQuantity(c.Request().Context(), id, payload.Quantity)
	switch {
	case errors.Is(err, store.ErrInvalidQuantity):
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be between 1 and the available stock", nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Cart item not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update cart", nil)
	}
	return ok(c, nil)
}

func deleteCartItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}
	if !ownsCartItem(c, id) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Cart item not found", nil)
	}
	if err := cartService(c).Remove(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to remove cart item", nil)
	}
	return ok(c, nil)
}

// cartLine rows are only addressable by their owner
func ownsCartItem(c echo.Context, itemID int64) bool {
	carts := store.NewGormCartRepository(GetDB(c))
	item, err := carts.GetItem(c.Request().Context(), itemID)
	if err != nil {
		return false
	}
	return item.UserId == webserver.CurrentUserID(c)
}
