package adminapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerAdminAuthRoutes() {
	// Token issuance sits on the public surface; everything else under
	// /admin/api requires the token it returns.
	webserver.PubPOST("/admin/login", adminLogin)
}

type adminLoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func adminLogin(c echo.Context) error {
	var payload adminLoginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required", nil)
	}

	profiles := store.NewGormProfileRepository(GetDB(c))
	profile, err := profiles.GetByEmail(c.Request().Context(), payload.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query profile", err.Error())
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	if !profile.IsAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Admin privileges required",
			map[string]string{"redirect": "/"})
	}

	ttl := time.Duration(appConfig.Web.JwtExpire) * time.Hour
	token, err := webserver.IssueAdminToken(appConfig.Web.Secret, profile.ID, ttl)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}

	GetDB(c).Model(profile).Update("last_login", time.Now())
	oprLog(c, "admin.login", profile.Email)
	return ok(c, map[string]interface{}{
		"token":   token,
		"expires": time.Now().Add(ttl).Unix(),
		"profile": profile,
	})
}
