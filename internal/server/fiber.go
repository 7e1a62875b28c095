package server

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// FiberAdapter wraps a Fiber app to implement WebServer
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a Fiber adapter reporting handler errors as JSON
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a Fiber adapter with panic recovery
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()
	adapter.app.Use(recover.New())
	return adapter
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	fa.app.Add(strings.ToUpper(method), path, fiberChain(handler, middlewares)...)
}

// RegisterGroup creates a new route group with the given prefix
func (fa *FiberAdapter) RegisterGroup(prefix string) RouteGroup {
	return &FiberRouteGroup{group: fa.app.Group(prefix)}
}

// Use adds middleware to the Fiber app
func (fa *FiberAdapter) Use(middleware MiddlewareFunc) {
	fa.app.Use(convertMiddlewareToFiber(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop gracefully shuts the server down
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

// FiberRouteGroup implements RouteGroup for Fiber groups
type FiberRouteGroup struct {
	group fiber.Router
}

// RegisterRoute registers a route with the group
func (frg *FiberRouteGroup) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	frg.group.Add(strings.ToUpper(method), path, fiberChain(handler, middlewares)...)
}

// Use adds middleware to the group
func (frg *FiberRouteGroup) Use(middleware MiddlewareFunc) {
	frg.group.Use(convertMiddlewareToFiber(middleware))
}

func fiberChain(handler HandlerFunc, middlewares []MiddlewareFunc) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(middlewares)+1)
	for _, mw := range middlewares {
		chain = append(chain, convertMiddlewareToFiber(mw))
	}
	return append(chain, convertHandlerToFiber(handler))
}

func convertHandlerToFiber(handler HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handler(&FiberRequestContext{ctx: c})
	}
}

func convertMiddlewareToFiber(middleware MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wrapped := middleware(func(RequestContext) error {
			return c.Next()
		})
		return wrapped(&FiberRequestContext{ctx: c})
	}
}

// FiberRequestContext implements RequestContext for Fiber
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

func (frc *FiberRequestContext) Header(key string) string {
	return frc.ctx.Get(key)
}

func (frc *FiberRequestContext) SetHeader(key, value string) {
	frc.ctx.Set(key, value)
}

func (frc *FiberRequestContext) Get(key string) interface{} {
	return frc.ctx.Locals(key)
}

func (frc *FiberRequestContext) Set(key string, val interface{}) {
	frc.ctx.Locals(key, val)
}

func (frc *FiberRequestContext) Blob(code int, contentType string, b []byte) error {
	frc.ctx.Set(fiber.HeaderContentType, contentType)
	return frc.ctx.Status(code).Send(b)
}

func (frc *FiberRequestContext) JSON(code int, i interface{}) error {
	return frc.ctx.Status(code).JSON(i)
}
