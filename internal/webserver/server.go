package webserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/wildfireconsulting/quantix/internal/app"
	"go.uber.org/zap"
)

// AppContextKey is the echo context key the application handle is stashed
// under for handlers.
const AppContextKey = "quantix_app"

type WebServer struct {
	appCtx app.AppContext
	root   *echo.Echo
	api    *echo.Group
}

var server *WebServer

// Init builds the package server. Route registration helpers panic before
// Init runs, which surfaces wiring mistakes at startup rather than request
// time.
func Init(appCtx app.AppContext) *WebServer {
	server = NewWebServer(appCtx)
	return server
}

func NewWebServer(appCtx app.AppContext) *WebServer {
	s := &WebServer{appCtx: appCtx}
	s.root = echo.New()
	s.root.Pre(middleware.RemoveTrailingSlash())
	s.root.Use(middleware.Recover())
	s.root.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	s.root.HideBanner = true
	s.root.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = fmt.Sprintf("%v", he.Message)
		}
		zap.L().Error("http request error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err))
		_ = c.JSON(code, map[string]interface{}{"code": "HTTP_ERROR", "message": msg})
	}

	s.api = s.root.Group("/api")
	s.api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})
	return s
}

// ApiUse installs middleware on the /api group.
func ApiUse(m ...echo.MiddlewareFunc) {
	server.api.Use(m...)
}

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}

// Echo exposes the root instance for tests.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func (s *WebServer) Listen() error {
	cfg := s.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("admin api listening on %s", addr)
	return s.root.Start(addr)
}
