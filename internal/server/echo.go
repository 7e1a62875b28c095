package server

import (
	"context"

	"github.com/labstack/echo/v4"
)

// EchoAdapter implements WebServer for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates an Echo adapter without the startup banner
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{engine: e}
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	ea.engine.Add(method, path, ea.convertHandler(handler), ea.convertMiddlewares(middlewares)...)
}

// RegisterGroup creates a new route group
func (ea *EchoAdapter) RegisterGroup(prefix string) RouteGroup {
	return &EchoGroupAdapter{group: ea.engine.Group(prefix), adapter: ea}
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware MiddlewareFunc) {
	ea.engine.Use(ea.convertMiddleware(middleware))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop gracefully shuts the server down
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

// EchoGroupAdapter implements RouteGroup for Echo groups
type EchoGroupAdapter struct {
	group   *echo.Group
	adapter *EchoAdapter
}

// RegisterRoute registers a route with the group
func (ega *EchoGroupAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	ega.group.Add(method, path, ega.adapter.convertHandler(handler), ega.adapter.convertMiddlewares(middlewares)...)
}

// Use adds middleware to the group
func (ega *EchoGroupAdapter) Use(middleware MiddlewareFunc) {
	ega.group.Use(ega.adapter.convertMiddleware(middleware))
}

func (ea *EchoAdapter) convertHandler(handler HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handler(&EchoRequestContext{context: c})
	}
}

func (ea *EchoAdapter) convertMiddlewares(middlewares []MiddlewareFunc) []echo.MiddlewareFunc {
	converted := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		converted[i] = ea.convertMiddleware(mw)
	}
	return converted
}

func (ea *EchoAdapter) convertMiddleware(middleware MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wrapped := middleware(func(RequestContext) error {
				return next(c)
			})
			return wrapped(&EchoRequestContext{context: c})
		}
	}
}

// EchoRequestContext implements RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
}

func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

func (erc *EchoRequestContext) Header(key string) string {
	return erc.context.Request().Header.Get(key)
}

func (erc *EchoRequestContext) SetHeader(key, value string) {
	erc.context.Response().Header().Set(key, value)
}

func (erc *EchoRequestContext) Get(key string) interface{} {
	return erc.context.Get(key)
}

func (erc *EchoRequestContext) Set(key string, val interface{}) {
	erc.context.Set(key, val)
}

func (erc *EchoRequestContext) Blob(code int, contentType string, b []byte) error {
	return erc.context.Blob(code, contentType, b)
}

func (erc *EchoRequestContext) JSON(code int, i interface{}) error {
	return erc.context.JSON(code, i)
}
