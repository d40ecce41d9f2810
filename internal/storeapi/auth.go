package storeapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
)

func registerAuthRoutes() {
	webserver.PubPOST("/auth/register", postRegister)
	webserver.PubPOST("/auth/login", postLogin)
	webserver.PubPOST("/auth/logout", postLogout)
	webserver.ApiGET("/auth/me", getMe)
}

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

func postRegister(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid registration fields", err.Error())
	}

	profiles := store.NewGormProfileRepository(GetDB(c))
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := profiles.GetByEmail(c.Request().Context(), email); err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_EMAIL", "An account with this email already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account", nil)
	}

	profile := domain.Profile{
		ID:        common.UUIDint64(),
		Email:     email,
		Password:  string(hash),
		FullName:  strings.TrimSpace(payload.FullName),
		LastLogin: time.Now(),
	}
	if err := profiles.Create(c.Request().Context(), &profile); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", nil)
	}

	if err := webserver.SignIn(c, profile.ID); err != nil {
		zap.L().Error("session save failed", zap.Error(err))
	}
	zap.L().Info("customer registered", zap.Int64("user_id", profile.ID))
	return ok(c, profile)
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func postLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid login fields", err.Error())
	}

	db := GetDB(c)
	profiles := store.NewGormProfileRepository(db)
	profile, err := profiles.GetByEmail(c.Request().Context(), payload.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to sign in", nil)
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password", nil)
	}

	if err := webserver.SignIn(c, profile.ID); err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign in", nil)
	}
	db.Model(&domain.Profile{}).Where("id = ?", profile.ID).Update("last_login", time.Now())
	return ok(c, profile)
}

func postLogout(c echo.Context) error {
	if err := webserver.SignOut(c); err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign out", nil)
	}
	return ok(c, nil)
}

func getMe(c echo.Context) error {
	profiles := store.NewGormProfileRepository(GetDB(c))
	profile, err := profiles.GetByID(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Profile not found", nil)
	}
	return ok(c, profile)
}
