package models

import "strings"

// Route group scopes exposed by plugins
const (
	ScopeContentAPI = "content-api"
	ScopeAdmin      = "admin"
)

// RouteDescriptor describes a single route registered with the host framework
type RouteDescriptor struct {
	// Method is the HTTP verb (GET, POST, PUT, DELETE, ...)
	Method string `json:"method" yaml:"method"`

	// Path is the route path, which may contain ':name' segments
	Path string `json:"path" yaml:"path"`

	// Handler is a dot-delimited handler identifier whose last segment names the action
	Handler string `json:"handler" yaml:"handler"`
}

// Action returns the final dot-delimited segment of the handler identifier
func (r RouteDescriptor) Action() string {
	if idx := strings.LastIndex(r.Handler, "."); idx != -1 {
		return r.Handler[idx+1:]
	}
	return r.Handler
}

// String returns "METHOD path", used to locate diagnostics
func (r RouteDescriptor) String() string {
	return strings.ToUpper(r.Method) + " " + r.Path
}

// RouteInfo is a group of routes sharing a prefix
type RouteInfo struct {
	Prefix string            `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Routes []RouteDescriptor `json:"routes" yaml:"routes"`
}
