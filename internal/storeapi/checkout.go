package storeapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/toughstore/internal/checkout"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerCheckoutRoutes() {
	webserver.ApiPOST("/checkout", postCheckout)
}

func postCheckout(c echo.Context) error {
	var input checkout.ShippingInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout form", nil)
	}

	result, err := checkoutSvc.PlaceOrder(c.Request().Context(), webserver.CurrentUserID(c), input)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr):
			return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "Please fill in all required fields",
				map[string]interface{}{"fields": verr.Fields})
		case errors.Is(err, checkout.ErrEmptyCart):
			return fail(c, http.StatusBadRequest, "EMPTY_CART", "Your cart is empty", nil)
		case errors.Is(err, checkout.ErrInsufficientStock):
			return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", "An item in your cart is no longer available in that quantity", nil)
		}
		zap.L().Error("checkout failed", zap.Int64("user_id", webserver.CurrentUserID(c)), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "ORDER_FAILED", "Failed to place order. Please try again.", nil)
	}
	return ok(c, result)
}
