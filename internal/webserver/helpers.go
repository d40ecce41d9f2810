package webserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const dbContextKey = "db"

// Response is the JSON envelope every API endpoint returns.
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

// PagedData wraps list payloads with pagination counters.
type PagedData struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Ok writes a success envelope.
func Ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Code: "OK", Data: data})
}

// Fail writes an error envelope with a machine-readable code.
func Fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, Response{Code: code, Message: message, Detail: detail})
}

// Paged writes a paginated list envelope.
func Paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, Response{Code: "OK", Data: PagedData{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}})
}

// GetDB returns the request-scoped gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(dbContextKey).(*gorm.DB)
}

// ParseIDParam parses an int64 path parameter.
func ParseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// ParsePagination reads page/perPage query params with sane bounds.
func ParsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = 20
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}
