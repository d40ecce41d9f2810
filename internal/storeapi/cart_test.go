package storeapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// newContext builds a request context carrying the db handle and a signed-in
// user, mirroring what the middlewares attach in production.
func newContext(t *testing.T, db *gorm.DB, userID int64, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("db", db)
	c.Set("uid", userID)
	return c, rec
}

func seedCartProduct(t *testing.T, db *gorm.DB, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:    common.UUIDint64(),
		Name:  "Midnight Oud",
		Slug:  "midnight-oud",
		Price: 2500,
		Stock: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestCartQuantityOwnership(t *testing.T) {
	db := openTestDB(t)
	product := seedCartProduct(t, db, 5)
	item := domain.CartItem{
		ID:        common.UUIDint64(),
		UserId:    100,
		ProductId: product.ID,
		Quantity:  1,
	}
	require.NoError(t, db.Create(&item).Error)

	itemPath := "/api/v1/cart/" + strconv.FormatInt(item.ID, 10)

	// another user cannot touch the row
	c, rec := newContext(t, db, 200, http.MethodPut, itemPath, `{"quantity":3}`)
	c.SetPath("/api/v1/cart/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(item.ID, 10))
	require.NoError(t, putCartQuantity(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the owner can
	c, rec = newContext(t, db, 100, http.MethodPut, itemPath, `{"quantity":3}`)
	c.SetPath("/api/v1/cart/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(item.ID, 10))
	require.NoError(t, putCartQuantity(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got domain.CartItem
	require.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, 3, got.Quantity)
}

func TestCartQuantityBounds(t *testing.T) {
	db := openTestDB(t)
	product := seedCartProduct(t, db, 2)
	item := domain.CartItem{
		ID:        common.UUIDint64(),
		UserId:    100,
		ProductId: product.ID,
		Quantity:  1,
	}
	require.NoError(t, db.Create(&item).Error)

	for _, body := range []string{`{"quantity":0}`, `{"quantity":3}`} {
		c, rec := newContext(t, db, 100, http.MethodPut, "/api/v1/cart/1", body)
		c.SetPath("/api/v1/cart/:id")
		c.SetParamNames("id")
		c.SetParamValues(strconv.FormatInt(item.ID, 10))
		require.NoError(t, putCartQuantity(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "INVALID_QUANTITY")
	}
}

func TestDeleteCartItemOwnership(t *testing.T) {
	db := openTestDB(t)
	product := seedCartProduct(t, db, 5)
	item := domain.CartItem{
		ID:        common.UUIDint64(),
		UserId:    100,
		ProductId: product.ID,
		Quantity:  1,
	}
	require.NoError(t, db.Create(&item).Error)

	c, rec := newContext(t, db, 200, http.MethodDelete, "/api/v1/cart/1", "")
	c.SetPath("/api/v1/cart/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(item.ID, 10))
	require.NoError(t, deleteCartItem(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(t, db, 100, http.MethodDelete, "/api/v1/cart/1", "")
	c.SetPath("/api/v1/cart/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(item.ID, 10))
	require.NoError(t, deleteCartItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&domain.CartItem{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetProductBySlug(t *testing.T) {
	db := openTestDB(t)
	seedCartProduct(t, db, 5)

	c, rec := newContext(t, db, 0, http.MethodGet, "/api/v1/products/midnight-oud", "")
	c.SetPath("/api/v1/products/:slug")
	c.SetParamNames("slug")
	c.SetParamValues("midnight-oud")
	require.NoError(t, getProductBySlug(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Midnight Oud")

	c, rec = newContext(t, db, 0, http.MethodGet, "/api/v1/products/nope", "")
	c.SetPath("/api/v1/products/:slug")
	c.SetParamNames("slug")
	c.SetParamValues("nope")
	require.NoError(t, getProductBySlug(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
