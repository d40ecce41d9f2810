package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
)

type productPayload struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       *int     `json:"stock"`
	ImageUrl    string   `json:"image_url"`
	Size        string   `json:"size"`
	Notes       []string `json:"notes"`
	Featured    bool     `json:"featured"`
	CategoryId  int64    `json:"category_id,string"`
}

// registerProductRoutes registers product CRUD plus export/import endpoints
func registerProductRoutes() {
	webserver.AdminGET("/products", listProducts)
	webserver.AdminGET("/products/export", exportProductsExcel)
	webserver.AdminGET("/products/:id", getProduct)
	webserver.AdminPOST("/products", createProduct)
	webserver.AdminPOST("/products/import", importProductsCsv)
	webserver.AdminPUT("/products/:id", updateProduct)
	webserver.AdminDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := store.ProductFilter{
		Query:     strings.TrimSpace(c.QueryParam("q")),
		SortCol:   strings.TrimSpace(c.QueryParam("sort")),
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
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	products := store.NewGormProductRepository(GetDB(c))
	p, err := products.GetByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func (p *productPayload) validate() (string, bool) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "Name is required", false
	}
	if p.Price < 0 {
		return "Price must be >= 0", false
	}
	if p.Stock != nil && *p.Stock < 0 {
		return "Stock must be >= 0", false
	}
	return "", true
}

// slug falls back to a slugified name; uniqueness is checked against other rows
func resolveSlug(db *gorm.DB, payload *productPayload, selfID int64) (string, error) {
	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.Name)
	}
	var count int64
	q := db.Model(&domain.Product{}).Where("slug = ?", slug)
	if selfID > 0 {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", errors.New("duplicate slug")
	}
	return slug, nil
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if msg, valid := payload.validate(); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	db := GetDB(c)
	slug, err := resolveSlug(db, &payload, 0)
	if err != nil {
		return fail(c, http.StatusConflict, "DUPLICATE_SLUG", "A product with this slug already exists", nil)
	}

	stock := 0
	if payload.Stock != nil {
		stock = *payload.Stock
	}
	now := time.Now()
	p := domain.Product{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Slug:        slug,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       stock,
		ImageUrl:    strings.TrimSpace(payload.ImageUrl),
		Size:        payload.Size,
		Notes:       payload.Notes,
		Featured:    payload.Featured,
		CategoryId:  payload.CategoryId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	products := store.NewGormProductRepository(db)
	if err := products.Create(c.Request().Context(), &p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	oprLog(c, "product.create", p.Name)
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	db := GetDB(c)
	products := store.NewGormProductRepository(db)
	p, err := products.GetByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if msg, valid := payload.validate(); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}
	slug, err := resolveSlug(db, &payload, id)
	if err != nil {
		return fail(c, http.StatusConflict, "DUPLICATE_SLUG", "A product with this slug already exists", nil)
	}

	p.Name = payload.Name
	p.Slug = slug
	p.Description = payload.Description
	p.Price = payload.Price
	if payload.Stock != nil {
		p.Stock = *payload.Stock
	}
	p.ImageUrl = strings.TrimSpace(payload.ImageUrl)
	p.Size = payload.Size
	p.Notes = payload.Notes
	p.Featured = payload.Featured
	p.CategoryId = payload.CategoryId
	p.UpdatedAt = time.Now()

	if err := products.Update(c.Request().Context(), p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	oprLog(c, "product.update", p.Name)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	products := store.NewGormProductRepository(GetDB(c))
	if err := products.Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	oprLog(c, "product.delete", strconv.FormatInt(id, 10))
	return ok(c, map[string]interface{}{"id": id})
}

// exportProductsExcel streams the full catalog as an xlsx workbook.
func exportProductsExcel(c echo.Context) error {
	var rows []domain.Product
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	xlsx := excelize.NewFile()
	sheet := "Products"
	xlsx.SetSheetName("Sheet1", sheet)
	headers := []string{"ID", "Name", "Slug", "Price", "Stock", "Size", "Featured", "Category"}
	for i, h := range headers {
		xlsx.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for i, p := range rows {
		line := i + 2
		xlsx.SetCellValue(sheet, fmt.Sprintf("A%d", line), p.ID)
		xlsx.SetCellValue(sheet, fmt.Sprintf("B%d", line), p.Name)
		xlsx.SetCellValue(sheet, fmt.Sprintf("C%d", line), p.Slug)
		xlsx.SetCellValue(sheet, fmt.Sprintf("D%d", line), p.Price)
		xlsx.SetCellValue(sheet, fmt.Sprintf("E%d", line), p.Stock)
		xlsx.SetCellValue(sheet, fmt.Sprintf("F%d", line), p.Size)
		xlsx.SetCellValue(sheet, fmt.Sprintf("G%d", line), p.Featured)
		xlsx.SetCellValue(sheet, fmt.Sprintf("H%d", line), p.CategoryId)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return xlsx.Write(c.Response())
}

type productCsvRow struct {
	Name        string  `csv:"name"`
	Slug        string  `csv:"slug"`
	Description string  `csv:"description"`
	Price       float64 `csv:"price"`
	Stock       int     `csv:"stock"`
	ImageUrl    string  `csv:"image_url"`
	Size        string  `csv:"size"`
}

// importProductsCsv bulk-creates products from an uploaded CSV file.
// Existing slugs are skipped, not overwritten.
func importProductsCsv(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "CSV file is required", nil)
	}
	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload", nil)
	}
	defer src.Close()

	var rows []productCsvRow
	if err := gocsv.Unmarshal(src, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse CSV", err.Error())
	}

	db := GetDB(c)
	imported, skipped := 0, 0
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			skipped++
			continue
		}
		slug := strings.TrimSpace(row.Slug)
		if slug == "" {
			slug = common.Slugify(name)
		}
		var count int64
		db.Model(&domain.Product{}).Where("slug = ?", slug).Count(&count)
		if count > 0 {
			skipped++
			continue
		}
		now := time.Now()
		p := domain.Product{
			ID:          common.UUIDint64(),
			Name:        name,
			Slug:        slug,
			Description: row.Description,
			Price:       row.Price,
			Stock:       row.Stock,
			ImageUrl:    row.ImageUrl,
			Size:        row.Size,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&p).Error; err != nil {
			skipped++
			continue
		}
		imported++
	}
	oprLog(c, "product.import", fmt.Sprintf("imported=%d skipped=%d", imported, skipped))
	return ok(c, map[string]interface{}{"imported": imported, "skipped": skipped})
}
