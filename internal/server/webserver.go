// Package server serves a generated OpenAPI document over HTTP through Echo,
// Gin or Fiber.
package server

import (
	"context"
	"fmt"
	"strings"
)

// WebServer defines the contract for web server implementations
type WebServer interface {
	// Route registration
	RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc)
	RegisterGroup(prefix string) RouteGroup

	// Global middleware
	Use(middleware MiddlewareFunc)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	Name() string
}

// RouteGroup represents a group of routes with a common prefix
type RouteGroup interface {
	RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc)
	Use(middleware MiddlewareFunc)
}

// RequestContext is the framework-agnostic view of a request
type RequestContext interface {
	Method() string
	Path() string

	// Headers
	Header(key string) string
	SetHeader(key, value string)

	// Context data
	Get(key string) interface{}
	Set(key string, val interface{})

	// Response writing
	Blob(code int, contentType string, b []byte) error
	JSON(code int, i interface{}) error
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Framework names a supported web framework
type Framework string

const (
	FrameworkEcho  Framework = "echo"
	FrameworkGin   Framework = "gin"
	FrameworkFiber Framework = "fiber"
)

// ParseFramework accepts echo, gin and fiber, case-insensitively
func ParseFramework(name string) (Framework, error) {
	switch Framework(strings.ToLower(strings.TrimSpace(name))) {
	case FrameworkEcho, "":
		return FrameworkEcho, nil
	case FrameworkGin:
		return FrameworkGin, nil
	case FrameworkFiber:
		return FrameworkFiber, nil
	default:
		return "", fmt.Errorf("unsupported framework '%s' (expected echo, gin or fiber)", name)
	}
}

// NewWebServer creates a default adapter for the framework
func NewWebServer(framework Framework) (WebServer, error) {
	switch framework {
	case FrameworkEcho:
		return NewDefaultEchoAdapter(), nil
	case FrameworkGin:
		return NewDefaultGinAdapter(), nil
	case FrameworkFiber:
		return NewDefaultFiberAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported framework '%s'", framework)
	}
}
