package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// GinAdapter implements WebServer for the Gin framework. Gin has no shutdown
// of its own, so Start serves the engine through an http.Server.
type GinAdapter struct {
	engine *gin.Engine

	mu      sync.Mutex
	server  *http.Server
	stopped bool
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a Gin adapter in release mode with panic recovery
func NewDefaultGinAdapter() *GinAdapter {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &GinAdapter{engine: engine}
}

// RegisterRoute registers a route with the Gin engine
func (ga *GinAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	ga.engine.Handle(method, path, ga.handlerChain(handler, middlewares)...)
}

// RegisterGroup creates a new route group
func (ga *GinAdapter) RegisterGroup(prefix string) RouteGroup {
	return &GinGroupAdapter{group: ga.engine.Group(prefix), adapter: ga}
}

// Use adds global middleware
func (ga *GinAdapter) Use(middleware MiddlewareFunc) {
	ga.engine.Use(convertMiddlewareToGin(middleware))
}

// Start serves the engine until Stop is called
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	if ga.stopped {
		ga.mu.Unlock()
		return http.ErrServerClosed
	}
	ga.server = &http.Server{
		Addr:              addr,
		Handler:           ga.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := ga.server
	ga.mu.Unlock()

	return server.ListenAndServe()
}

// Stop gracefully shuts the server down
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	server := ga.server
	ga.stopped = true
	ga.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

func (ga *GinAdapter) handlerChain(handler HandlerFunc, middlewares []MiddlewareFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	for _, mw := range middlewares {
		chain = append(chain, convertMiddlewareToGin(mw))
	}
	return append(chain, convertHandlerToGin(handler))
}

// GinGroupAdapter implements RouteGroup for Gin router groups
type GinGroupAdapter struct {
	group   *gin.RouterGroup
	adapter *GinAdapter
}

// RegisterRoute registers a route with the group
func (gga *GinGroupAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	gga.group.Handle(method, path, gga.adapter.handlerChain(handler, middlewares)...)
}

// Use adds middleware to the group
func (gga *GinGroupAdapter) Use(middleware MiddlewareFunc) {
	gga.group.Use(convertMiddlewareToGin(middleware))
}

func convertHandlerToGin(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(&GinRequestContext{context: c}); err != nil {
			c.Error(err)
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
		}
	}
}

// convertMiddlewareToGin runs the middleware with c.Next as its next handler.
// A middleware that returns without calling next aborts the chain.
func convertMiddlewareToGin(middleware MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		wrapped := middleware(func(RequestContext) error {
			called = true
			c.Next()
			return nil
		})

		if err := wrapped(&GinRequestContext{context: c}); err != nil {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !called {
			c.Abort()
		}
	}
}

// GinRequestContext implements RequestContext for Gin
type GinRequestContext struct {
	context *gin.Context
}

func (grc *GinRequestContext) Method() string {
	return grc.context.Request.Method
}

func (grc *GinRequestContext) Path() string {
	return grc.context.Request.URL.Path
}

func (grc *GinRequestContext) Header(key string) string {
	return grc.context.GetHeader(key)
}

func (grc *GinRequestContext) SetHeader(key, value string) {
	grc.context.Header(key, value)
}

func (grc *GinRequestContext) Get(key string) interface{} {
	value, _ := grc.context.Get(key)
	return value
}

func (grc *GinRequestContext) Set(key string, val interface{}) {
	grc.context.Set(key, val)
}

func (grc *GinRequestContext) Blob(code int, contentType string, b []byte) error {
	grc.context.Data(code, contentType, b)
	return nil
}

func (grc *GinRequestContext) JSON(code int, i interface{}) error {
	grc.context.JSON(code, i)
	return nil
}
