package registry

import (
	"fmt"

	"github.com/toyz/apidoc/internal/models"
	"github.com/toyz/apidoc/internal/utils"
)

// Registry exposes the content types, components and route groups of an application
type Registry interface {
	// APIs returns every registered api and plugin, sorted by name
	APIs() []models.API

	// ContentType looks up a content type by uid ("api::article.article")
	ContentType(uid string) (models.ContentType, bool)

	// Component looks up a component by uid ("shared.seo")
	Component(uid string) (models.Component, bool)

	// Routes returns the route group of an api content type
	Routes(api, contentType string) (*models.RouteInfo, bool)

	// PluginRoutes returns a plugin route group by scope ("content-api", "admin")
	PluginRoutes(plugin, scope string) (*models.RouteInfo, bool)
}

// InMemoryRegistry implements Registry on top of thread-safe sorted maps
type InMemoryRegistry struct {
	apis         *utils.Registry[string, models.API]
	contentTypes *utils.Registry[string, models.ContentType]
	components   *utils.Registry[string, models.Component]
	routes       *utils.Registry[string, *models.RouteInfo]
}

// NewInMemoryRegistry creates an empty registry
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		apis:         utils.NewRegistry[string, models.API]("api"),
		contentTypes: utils.NewRegistry[string, models.ContentType]("content type"),
		components:   utils.NewRegistry[string, models.Component]("component"),
		routes:       utils.NewRegistry[string, *models.RouteInfo]("route group"),
	}
}

// RegisterAPI adds an api or plugin
func (r *InMemoryRegistry) RegisterAPI(api models.API) error {
	if api.Name == "" {
		return fmt.Errorf("api name cannot be empty")
	}
	if api.Kind != models.KindAPI && api.Kind != models.KindPlugin {
		return fmt.Errorf("api '%s' has unknown kind '%s' (expected '%s' or '%s')", api.Name, api.Kind, models.KindAPI, models.KindPlugin)
	}
	return r.apis.Register(api.Name, api)
}

// RegisterContentType adds a content type
func (r *InMemoryRegistry) RegisterContentType(ct models.ContentType) error {
	if ct.UID == "" {
		return fmt.Errorf("content type uid cannot be empty")
	}
	return r.contentTypes.Register(ct.UID, ct)
}

// RegisterComponent adds a component
func (r *InMemoryRegistry) RegisterComponent(c models.Component) error {
	if c.UID == "" {
		return fmt.Errorf("component uid cannot be empty")
	}
	return r.components.Register(c.UID, c)
}

// RegisterRoutes stores the route group of an api content type
func (r *InMemoryRegistry) RegisterRoutes(api, contentType string, info *models.RouteInfo) {
	r.routes.Set(routesKey(models.KindAPI, api, contentType), info)
}

// RegisterPluginRoutes stores a plugin route group under its scope
func (r *InMemoryRegistry) RegisterPluginRoutes(plugin, scope string, info *models.RouteInfo) {
	r.routes.Set(routesKey(models.KindPlugin, plugin, scope), info)
}

func (r *InMemoryRegistry) APIs() []models.API {
	return r.apis.Values()
}

func (r *InMemoryRegistry) ContentType(uid string) (models.ContentType, bool) {
	return r.contentTypes.Get(uid)
}

func (r *InMemoryRegistry) Component(uid string) (models.Component, bool) {
	return r.components.Get(uid)
}

func (r *InMemoryRegistry) Routes(api, contentType string) (*models.RouteInfo, bool) {
	return r.routes.Get(routesKey(models.KindAPI, api, contentType))
}

func (r *InMemoryRegistry) PluginRoutes(plugin, scope string) (*models.RouteInfo, bool) {
	return r.routes.Get(routesKey(models.KindPlugin, plugin, scope))
}

func routesKey(kind models.APIKind, name, group string) string {
	return fmt.Sprintf("%s::%s#%s", kind, name, group)
}
