package webserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/toughstore/internal/store"
)

const testSecret = "test-secret"

type fakeProfiles struct {
	store.ProfileRepository
	admins map[int64]bool
}

func (f *fakeProfiles) IsUserAdmin(ctx context.Context, userID int64) (bool, error) {
	return f.admins[userID], nil
}

func adminTestHandler(c echo.Context) error {
	return Ok(c, map[string]interface{}{"uid": CurrentUserID(c)})
}

func newAdminEcho(profiles store.ProfileRepository) *echo.Echo {
	e := echo.New()
	g := e.Group("/admin/api", AdminJWT(testSecret), AdminCheck(profiles))
	g.GET("/ping", adminTestHandler)
	return e
}

func TestAdminTokenRoundTrip(t *testing.T) {
	profiles := &fakeProfiles{admins: map[int64]bool{42: true}}
	e := newAdminEcho(profiles)

	token, err := IssueAdminToken(testSecret, 42, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uid":42`)
}

func TestAdminRejectsMissingToken(t *testing.T) {
	e := newAdminEcho(&fakeProfiles{admins: map[int64]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "/auth/login")
}

func TestAdminRejectsNonAdmin(t *testing.T) {
	// a valid token for a user whose admin flag is off gets a home redirect
	e := newAdminEcho(&fakeProfiles{admins: map[int64]bool{}})

	token, err := IssueAdminToken(testSecret, 7, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/"`)
}

func TestAdminRejectsExpiredToken(t *testing.T) {
	e := newAdminEcho(&fakeProfiles{admins: map[int64]bool{42: true}})

	token, err := IssueAdminToken(testSecret, 42, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthRejectsAnonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := SessionAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "/auth/login")
}
