package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerProfileRoutes() {
	webserver.ApiGET("/profile", getProfile)
	webserver.ApiPUT("/profile", putProfile)
}

func getProfile(c echo.Context) error {
	profiles := store.NewGormProfileRepository(GetDB(c))
	profile, err := profiles.GetByID(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Profile not found", nil)
	}
	return ok(c, profile)
}

type profilePayload struct {
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

func putProfile(c echo.Context) error {
	var payload profilePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Full name is required", nil)
	}

	profiles := store.NewGormProfileRepository(GetDB(c))
	err := profiles.UpdateShipping(c.Request().Context(), webserver.CurrentUserID(c),
		strings.TrimSpace(payload.FullName), payload.Phone, payload.Address, payload.City, payload.PostalCode)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile", nil)
	}
	return ok(c, nil)
}
