package storeapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/featured", listFeaturedProducts)
	webserver.PubGET("/products/:slug", getProductBySlug)
	webserver.PubGET("/categories", listCategories)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := store.ProductFilter{
		Query:     c.QueryParam("q"),
		SortCol:   c.QueryParam("sort"),
		SortOrder: c.QueryParam("order"),
		Page:      page,
		PageSize:  pageSize,
	}
	if cid, err := strconv.ParseInt(c.QueryParam("category_id"), 10, 64); err == nil {
		filter.CategoryId = cid
	}

	products := store.NewGormProductRepository(GetDB(c))
	rows, total, err := products.List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}
	return paged(c, rows, total, page, pageSize)
}

func listFeaturedProducts(c echo.Context) error {
	products := store.NewGormProductRepository(GetDB(c))
	rows, err := products.Featured(c.Request().Context(), 3)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}
	return ok(c, rows)
}

func getProductBySlug(c echo.Context) error {
	products := store.NewGormProductRepository(GetDB(c))
	p, err := products.GetBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", nil)
	}
	return ok(c, p)
}

func listCategories(c echo.Context) error {
	categories := store.NewGormCategoryRepository(GetDB(c))
	rows, err := categories.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", nil)
	}
	return ok(c, rows)
}
