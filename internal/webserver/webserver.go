package webserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gorilla/sessions"

	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/store"
)

var server *WebServer

// WebServer wraps echo with the three route surfaces: public storefront,
// session-guarded storefront and JWT-guarded admin API.
type WebServer struct {
	root  *echo.Echo
	pub   *echo.Group
	api   *echo.Group
	admin *echo.Group
	cfg   *config.AppConfig
	db    *gorm.DB
}

type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsoniter.NewDecoder(c.Request().Body).Decode(i)
	if err == io.EOF {
		return nil
	}
	return err
}

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Init builds the singleton web server. Must be called before any route
// registration.
func Init(cfg *config.AppConfig, db *gorm.DB) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = &payloadValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.Web.Secret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(dbContextKey, db)
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	})

	s := &WebServer{
		root: e,
		cfg:  cfg,
		db:   db,
	}

	profiles := store.NewGormProfileRepository(db)
	s.pub = e.Group("/api/v1")
	s.api = e.Group("/api/v1", SessionAuth)
	s.admin = e.Group("/admin/api", AdminJWT(cfg.Web.Secret), AdminCheck(profiles))

	server = s
	return s
}

// Instance returns the singleton, nil before Init.
func Instance() *WebServer {
	return server
}

func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Start serves until the listener fails or Stop is called.
func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("webserver listening", zap.String("addr", addr))
	err := s.root.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *WebServer) Stop(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

// Public storefront routes (no identity required).

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// Session-guarded storefront routes.

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// Admin back-office routes (JWT + fresh privilege check).

func AdminGET(path string, h echo.HandlerFunc) {
	server.admin.GET(path, h)
}

func AdminPOST(path string, h echo.HandlerFunc) {
	server.admin.POST(path, h)
}

func AdminPUT(path string, h echo.HandlerFunc) {
	server.admin.PUT(path, h)
}

func AdminDELETE(path string, h echo.HandlerFunc) {
	server.admin.DELETE(path, h)
}
