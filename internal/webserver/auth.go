package webserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/toughstore/internal/store"
)

const (
	sessionName    = "toughstore_session"
	sessionUserKey = "user_id"
	userContextKey = "uid"
)

// SignIn stores the user id in the session cookie.
func SignIn(c echo.Context, userID int64) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.Path = "/"
	sess.Options.MaxAge = 86400 * 7
	sess.Options.HttpOnly = true
	sess.Values[sessionUserKey] = userID
	return sess.Save(c.Request(), c.Response())
}

// SignOut clears the session cookie.
func SignOut(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	delete(sess.Values, sessionUserKey)
	return sess.Save(c.Request(), c.Response())
}

// SessionUserID returns the signed-in user id, 0 when anonymous.
func SessionUserID(c echo.Context) int64 {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return 0
	}
	if id, ok := sess.Values[sessionUserKey].(int64); ok {
		return id
	}
	return 0
}

// CurrentUserID returns the identity attached by the guard middlewares.
func CurrentUserID(c echo.Context) int64 {
	if id, ok := c.Get(userContextKey).(int64); ok {
		return id
	}
	return 0
}

// SessionAuth guards storefront pages: no identity means a login redirect.
func SessionAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := SessionUserID(c)
		if uid == 0 {
			return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required",
				map[string]string{"redirect": "/auth/login"})
		}
		c.Set(userContextKey, uid)
		return next(c)
	}
}

type adminClaims struct {
	UserId int64 `json:"uid"`
	jwt.RegisteredClaims
}

// IssueAdminToken signs a short-lived admin bearer token.
func IssueAdminToken(secret string, userID int64, ttl time.Duration) (string, error) {
	claims := adminClaims{
		UserId: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "toughstore",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// AdminJWT validates the bearer token on admin routes.
func AdminJWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(adminClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing token",
				map[string]string{"redirect": "/auth/login"})
		},
	})
}

// AdminCheck re-reads the admin flag from the profiles table on every
// request; a stale or revoked privilege is caught immediately.
func AdminCheck(profiles store.ProfileRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token", nil)
			}
			claims, ok := token.Claims.(*adminClaims)
			if !ok || claims.UserId == 0 {
				return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", nil)
			}
			isAdmin, err := profiles.IsUserAdmin(c.Request().Context(), claims.UserId)
			if err != nil {
				zap.L().Error("admin check failed", zap.Int64("user_id", claims.UserId), zap.Error(err))
				return Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to verify privileges", nil)
			}
			if !isAdmin {
				return Fail(c, http.StatusForbidden, "FORBIDDEN", "Admin privileges required",
					map[string]string{"redirect": "/"})
			}
			c.Set(userContextKey, claims.UserId)
			return next(c)
		}
	}
}
