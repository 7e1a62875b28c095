package builder

import (
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"

	"github.com/toyz/apidoc/internal/models"
	"github.com/toyz/apidoc/internal/openapi"
	"github.com/toyz/apidoc/internal/registry"
)

var articleAttributes = models.AttributeMap{
	"title":    {Type: models.AttributeString, Required: true},
	"body":     {Type: models.AttributeRichText},
	"slug":     {Type: models.AttributeUID},
	"password": {Type: models.AttributePassword},
	"internal": {Type: models.AttributeString, Private: true},
}

func articleRoutes() *models.RouteInfo {
	return &models.RouteInfo{
		Routes: []models.RouteDescriptor{
			{Method: "GET", Path: "/articles", Handler: "api::article.article.find"},
			{Method: "GET", Path: "/articles/:id", Handler: "api::article.article.findOne"},
			{Method: "POST", Path: "/articles", Handler: "api::article.article.create"},
			{Method: "PUT", Path: "/articles/:id", Handler: "api::article.article.update"},
			{Method: "DELETE", Path: "/articles/:id", Handler: "api::article.article.delete"},
		},
	}
}

// newTestRegistry registers an article api, a category api with a relation
// to articles, the seo component and an email plugin without content types
func newTestRegistry(t *testing.T) *registry.InMemoryRegistry {
	t.Helper()
	reg := registry.NewInMemoryRegistry()

	require.NoError(t, reg.RegisterAPI(models.API{Name: "article", Kind: models.KindAPI, ContentTypes: []string{"article"}}))
	require.NoError(t, reg.RegisterContentType(models.ContentType{UID: "api::article.article", Attributes: articleAttributes}))
	reg.RegisterRoutes("article", "article", articleRoutes())

	require.NoError(t, reg.RegisterAPI(models.API{Name: "category", Kind: models.KindAPI, ContentTypes: []string{"category"}}))
	require.NoError(t, reg.RegisterContentType(models.ContentType{
		UID: "api::category.category",
		Attributes: models.AttributeMap{
			"name":     {Type: models.AttributeString},
			"articles": {Type: models.AttributeRelation, Relation: "oneToMany", Target: "api::article.article"},
			"seo":      {Type: models.AttributeComponent, Component: "shared.seo"},
		},
	}))
	reg.RegisterRoutes("category", "category", &models.RouteInfo{
		Prefix: "",
		Routes: []models.RouteDescriptor{
			{Method: "GET", Path: "/categories", Handler: "api::category.category.find"},
		},
	})

	require.NoError(t, reg.RegisterComponent(models.Component{
		UID: "shared.seo",
		Attributes: models.AttributeMap{
			"metaTitle": {Type: models.AttributeString, Required: true},
		},
	}))

	require.NoError(t, reg.RegisterAPI(models.API{Name: "email", Kind: models.KindPlugin}))
	reg.RegisterPluginRoutes("email", models.ScopeAdmin, &models.RouteInfo{
		Prefix: "/email",
		Routes: []models.RouteDescriptor{
			{Method: "POST", Path: "/", Handler: "email.send"},
			{Method: "GET", Path: "/settings", Handler: "email.getSettings"},
		},
	})

	return reg
}

// operation returns the operation stored under path and method, or nil
func operation(paths *openapi3.Paths, path, method string) *openapi3.Operation {
	item := paths.Value(path)
	if item == nil {
		return nil
	}
	return item.GetOperation(strings.ToUpper(method))
}

// property walks nested object properties starting at schema
func property(schema *openapi3.Schema, names ...string) *openapi3.Schema {
	current := schema
	for _, name := range names {
		if current == nil {
			return nil
		}
		ref := current.Properties[name]
		if ref == nil {
			return nil
		}
		current = ref.Value
	}
	return current
}

// jsonSchema returns the application/json schema of a response or request body
func jsonSchema(content openapi3.Content) *openapi3.SchemaRef {
	media := content[openapi.ContentTypeJSON]
	if media == nil {
		return nil
	}
	return media.Schema
}

func keys[V any](m map[string]V) []string {
	return sortedKeys(m)
}

// typeOf returns the single JSON type of schema, or ""
func typeOf(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil || len(*schema.Type) != 1 {
		return ""
	}
	return (*schema.Type)[0]
}
