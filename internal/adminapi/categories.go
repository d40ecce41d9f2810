package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
)

func registerCategoryRoutes() {
	webserver.AdminGET("/categories", listAdminCategories)
	webserver.AdminPOST("/categories", createCategory)
	webserver.AdminPUT("/categories/:id", updateCategory)
	webserver.AdminDELETE("/categories/:id", deleteCategory)
}

func listAdminCategories(c echo.Context) error {
	categories := store.NewGormCategoryRepository(GetDB(c))
	rows, err := categories.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, rows)
}

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Category name is required", nil)
	}

	cat := domain.Category{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	categories := store.NewGormCategoryRepository(GetDB(c))
	if err := categories.Create(c.Request().Context(), &cat); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	oprLog(c, "category.create", cat.Name)
	return ok(c, cat)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Category name is required", nil)
	}

	categories := store.NewGormCategoryRepository(GetDB(c))
	cat, err := categories.GetByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	cat.Name = payload.Name
	cat.UpdatedAt = time.Now()
	if err := categories.Update(c.Request().Context(), cat); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	oprLog(c, "category.update", cat.Name)
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	categories := store.NewGormCategoryRepository(GetDB(c))
	if err := categories.Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	oprLog(c, "category.delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
