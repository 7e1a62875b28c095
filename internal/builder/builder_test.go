package builder

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/models"
	"github.com/toyz/apidoc/internal/openapi"
)

// exportAll lets cmp descend into the unexported bookkeeping of openapi3 types
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func buildArticles(t *testing.T, routes *models.RouteInfo) *Result {
	t.Helper()
	b := New(newTestRegistry(t))
	result, err := b.BuildRoutePathsAndSchemas(APIInfo{
		RouteInfo:  routes,
		Attributes: articleAttributes,
		Tag:        "article",
	})
	require.NoError(t, err)
	return result
}

func TestBuildRoutePathsAndSchemas_ListRoute(t *testing.T) {
	result := buildArticles(t, &models.RouteInfo{
		Routes: []models.RouteDescriptor{
			{Method: "GET", Path: "/articles", Handler: "api::article.find"},
		},
	})
	require.Empty(t, result.Diagnostics)

	op := operation(result.Paths, "/articles", "get")
	require.NotNil(t, op)
	assert.Equal(t, []string{"Article"}, op.Tags)
	assert.Equal(t, openapi.SchemaRefPrefix+"ArticleListResponse", jsonSchema(op.Responses.Value("200").Value.Content).Ref)
	assert.Len(t, op.Parameters, len(QueryParams()))
	assert.True(t, openapi.HasEmptyRequestBody(op))

	stub, ok := result.Schemas["ArticleListResponse"]
	require.True(t, ok)
	assert.True(t, property(stub.Value, "data").Type.Is(openapi3.TypeArray))

	pagination := property(stub.Value, "meta", "pagination")
	require.NotNil(t, pagination)
	pageSize := property(pagination, "pageSize")
	require.NotNil(t, pageSize.Min)
	assert.Equal(t, 25.0, *pageSize.Min)
	assert.Equal(t, 1.0, *property(pagination, "pageCount").Max)
}

func TestBuildRoutePathsAndSchemas_SingleRoute(t *testing.T) {
	result := buildArticles(t, &models.RouteInfo{
		Routes: []models.RouteDescriptor{
			{Method: "GET", Path: "/articles/:id", Handler: "api::article.article.findOne"},
		},
	})

	op := operation(result.Paths, "/articles/{id}", "get")
	require.NotNil(t, op)
	assert.Equal(t, openapi.SchemaRefPrefix+"ArticleResponse", jsonSchema(op.Responses.Value("200").Value.Content).Ref)

	require.Len(t, op.Parameters, 1)
	param := op.Parameters[0].Value
	assert.Equal(t, "id", param.Name)
	assert.Equal(t, openapi3.ParameterInPath, param.In)
	assert.True(t, param.Required)
	assert.False(t, param.Deprecated)
	assert.True(t, param.Schema.Value.Type.Is(openapi3.TypeString))

	stub := result.Schemas["ArticleResponse"]
	require.NotNil(t, stub)
	assert.True(t, property(stub.Value, "data").Type.Is(openapi3.TypeObject))
	assert.Equal(t, openapi.Typed(openapi3.TypeObject), property(stub.Value, "meta"))
	assert.NotContains(t, result.Schemas, "ArticleListResponse")
}

func TestBuildRoutePathsAndSchemas_DeleteRoute(t *testing.T) {
	result := buildArticles(t, &models.RouteInfo{
		Routes: []models.RouteDescriptor{
			{Method: "DELETE", Path: "/articles/:id", Handler: "api::article.article.delete"},
		},
	})

	op := operation(result.Paths, "/articles/{id}", "delete")
	require.NotNil(t, op)
	assert.Equal(t, openapi3.NewInt64Schema(), jsonSchema(op.Responses.Value("200").Value.Content).Value)
	assert.Empty(t, result.Schemas, "delete routes register no response stub")
}

func TestBuildRoutePathsAndSchemas_Prefixes(t *testing.T) {
	result := buildArticles(t, &models.RouteInfo{
		Prefix: "/articles",
		Routes: []models.RouteDescriptor{
			{Method: "GET", Path: "/", Handler: "api::article.article.find"},
			{Method: "POST", Path: "/articles/:id/localizations", Handler: "api::article.article.createLocalization"},
			{Method: "GET", Path: "/:id", Handler: "api::article.article.findOne"},
		},
	})

	assert.Equal(t, []string{"/articles", "/articles/{id}", "/articles/{id}/localizations"}, keys(result.Paths.Map()))
}

func TestBuildRoutePathsAndSchemas_RequestBodies(t *testing.T) {
	result := buildArticles(t, articleRoutes())

	post := operation(result.Paths, "/articles", "post")
	require.NotNil(t, post)
	require.NotNil(t, post.RequestBody)
	assert.True(t, post.RequestBody.Value.Required)
	data := property(jsonSchema(post.RequestBody.Value.Content).Value, "data")
	assert.Equal(t, []string{"title"}, keys(data.Properties), "POST documents the required attributes only")

	put := operation(result.Paths, "/articles/{id}", "put")
	require.NotNil(t, put)
	data = property(jsonSchema(put.RequestBody.Value.Content).Value, "data")
	assert.Equal(t, []string{"body", "password", "slug", "title"}, keys(data.Properties))

	get := operation(result.Paths, "/articles/{id}", "get")
	assert.Nil(t, get.RequestBody)
	assert.True(t, openapi.HasEmptyRequestBody(get))

	encoded, err := json.Marshal(get)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"requestBody":{}`)
}

func TestBuildRoutePathsAndSchemas_ErrorLadder(t *testing.T) {
	result := buildArticles(t, articleRoutes())

	op := operation(result.Paths, "/articles", "get")
	for status, description := range map[string]string{
		"400": "Bad Request",
		"401": "Unauthorized",
		"403": "Forbidden",
		"404": "Not Found",
		"500": "Internal Server Error",
	} {
		response := op.Responses.Value(status)
		require.NotNil(t, response, status)
		assert.Equal(t, description, *response.Value.Description)
		assert.Equal(t, ErrorSchemaName, openapi.RefName(jsonSchema(response.Value.Content)))
	}
	assert.NotContains(t, result.Schemas, ErrorSchemaName)
}

func TestBuildRoutePathsAndSchemas_MissingRoutes(t *testing.T) {
	b := New(newTestRegistry(t))

	for name, info := range map[string]*models.RouteInfo{
		"nil group":  nil,
		"nil routes": {Prefix: "/articles"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := b.BuildRoutePathsAndSchemas(APIInfo{RouteInfo: info, Tag: "article"})
			require.Error(t, err)
			assert.Equal(t, errors.InvalidRouteDescriptorCode, errors.CodeOf(err))
		})
	}
}

func TestBuildRoutePathsAndSchemas_IsolatesBadRoutes(t *testing.T) {
	result := buildArticles(t, &models.RouteInfo{
		Routes: []models.RouteDescriptor{
			{Method: "GET", Path: "/articles"},
			{Method: "", Path: "/articles/:id", Handler: "api::article.article.findOne"},
			{Method: "GET", Path: "/articles/:id(", Handler: "api::article.article.findOne"},
			{Method: "FETCH", Path: "/articles/:id", Handler: "api::article.article.fetch"},
			{Method: "GET", Path: "/articles/:id", Handler: "api::article.article.findOne"},
		},
	})

	require.Len(t, result.Diagnostics, 4)
	assert.Equal(t, errors.InvalidRouteDescriptorCode, result.Diagnostics[0].Code())
	assert.Contains(t, result.Diagnostics[0].String(), "missing handler")
	assert.Equal(t, errors.InvalidRouteDescriptorCode, result.Diagnostics[1].Code())
	assert.Equal(t, errors.PathTemplateErrorCode, result.Diagnostics[2].Code())
	assert.Equal(t, errors.InvalidRouteDescriptorCode, result.Diagnostics[3].Code())
	assert.Contains(t, result.Diagnostics[3].String(), "unsupported method 'FETCH'")
	assert.True(t, result.HasErrors())

	assert.Equal(t, 1, result.Paths.Len())
	assert.NotNil(t, operation(result.Paths, "/articles/{id}", "get"))
}

func TestBuildRoutePathsAndSchemas_LowercaseMethod(t *testing.T) {
	result := buildArticles(t, &models.RouteInfo{
		Routes: []models.RouteDescriptor{
			{Method: "post", Path: "/articles", Handler: "api::article.article.create"},
		},
	})

	require.Empty(t, result.Diagnostics)
	post := operation(result.Paths, "/articles", "post")
	require.NotNil(t, post)
	assert.NotNil(t, post.RequestBody)
}

func TestBuildRoutePathsAndSchemas_InvalidAttribute(t *testing.T) {
	b := New(newTestRegistry(t))
	result, err := b.BuildRoutePathsAndSchemas(APIInfo{
		RouteInfo:  articleRoutes(),
		Attributes: models.AttributeMap{"shape": {Type: "geometry"}},
		Tag:        "article",
	})
	require.NoError(t, err)

	// every route needing the attribute schema is skipped; DELETE survives
	assert.Len(t, result.Diagnostics, 4)
	for _, d := range result.Diagnostics {
		assert.Equal(t, errors.InvalidAttributeCode, d.Code())
	}
	assert.NotNil(t, operation(result.Paths, "/articles/{id}", "delete"))
}

func TestBuildRoutePathsAndSchemas_AmbiguousHandler(t *testing.T) {
	result := buildArticles(t, &models.RouteInfo{
		Routes: []models.RouteDescriptor{
			{Method: "GET", Path: "/articles/all", Handler: "api::article.article.findMany"},
		},
	})

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, SeverityWarning, result.Diagnostics[0].Severity)
	assert.Contains(t, result.Schemas, "ArticleResponse")
	assert.False(t, result.HasErrors())
}

func TestBuildRoutePathsAndSchemas_CustomClassifier(t *testing.T) {
	b := NewWithClassifier(newTestRegistry(t), ActionClassifier("find", "findMany"))
	result, err := b.BuildRoutePathsAndSchemas(APIInfo{
		RouteInfo: &models.RouteInfo{
			Routes: []models.RouteDescriptor{
				{Method: "GET", Path: "/articles/all", Handler: "api::article.article.findMany"},
			},
		},
		Attributes: articleAttributes,
		Tag:        "article",
	})
	require.NoError(t, err)

	assert.Empty(t, result.Diagnostics)
	assert.Contains(t, result.Schemas, "ArticleListResponse")
}

func TestBuildRoutePathsAndSchemas_ConcurrentCalls(t *testing.T) {
	b := New(newTestRegistry(t))
	info := APIInfo{RouteInfo: articleRoutes(), Attributes: articleAttributes, Tag: "article"}

	want, err := b.BuildRoutePathsAndSchemas(info)
	require.NoError(t, err)

	const workers = 8
	results := make([]*Result, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = b.BuildRoutePathsAndSchemas(info)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if diff := cmp.Diff(want, results[i], exportAll); diff != "" {
			t.Errorf("worker %d result mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestResult_MergeIsIdempotentForSameTag(t *testing.T) {
	first := buildArticles(t, articleRoutes())
	second := buildArticles(t, articleRoutes())

	merged := NewResult()
	merged.Merge(first)
	merged.Merge(second)

	assert.Empty(t, merged.Diagnostics)
	assert.Len(t, merged.Schemas, 2)
	if diff := cmp.Diff(first.Schemas, merged.Schemas, exportAll); diff != "" {
		t.Errorf("merged schemas mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first.Paths, merged.Paths, exportAll); diff != "" {
		t.Errorf("merged paths mismatch (-want +got):\n%s", diff)
	}
}

func TestResult_MergeReportsConflictingShapes(t *testing.T) {
	b := New(newTestRegistry(t))
	routes := &models.RouteInfo{
		Routes: []models.RouteDescriptor{{Method: "GET", Path: "/articles", Handler: "api::article.find"}},
	}

	first, err := b.BuildRoutePathsAndSchemas(APIInfo{RouteInfo: routes, Attributes: articleAttributes, Tag: "article"})
	require.NoError(t, err)
	second, err := b.BuildRoutePathsAndSchemas(APIInfo{
		RouteInfo:  routes,
		Attributes: models.AttributeMap{"headline": {Type: models.AttributeString}},
		Tag:        "article",
	})
	require.NoError(t, err)

	merged := NewResult()
	merged.Merge(first)
	merged.Merge(second)

	require.Len(t, merged.Diagnostics, 1)
	assert.Contains(t, merged.Diagnostics[0].String(), "schema 'ArticleListResponse' redefined")
	assert.Same(t, second.Schemas["ArticleListResponse"], merged.Schemas["ArticleListResponse"], "last write wins")
}

func TestBuildAPIEndpointPath(t *testing.T) {
	reg := newTestRegistry(t)
	b := New(reg)

	result, err := b.BuildAPIEndpointPath(models.API{Name: "category", Kind: models.KindAPI, ContentTypes: []string{"category"}})
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)

	stub := result.Schemas["CategoryListResponse"]
	require.NotNil(t, stub)
	data := property(stub.Value, "data")
	require.NotNil(t, data.Items)
	attributes := property(data.Items.Value, "attributes").Properties
	assert.Equal(t, []string{"articles", "name", "seo"}, keys(attributes))
	assert.True(t, property(attributes["articles"].Value, "data").Type.Is(openapi3.TypeArray))
}

func TestBuildAPIEndpointPath_TagForMismatchedContentType(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterAPI(models.API{Name: "restaurant", Kind: models.KindAPI, ContentTypes: []string{"category"}}))
	require.NoError(t, reg.RegisterContentType(models.ContentType{
		UID:        "api::restaurant.category",
		Attributes: models.AttributeMap{"name": {Type: models.AttributeString}},
	}))
	reg.RegisterRoutes("restaurant", "category", &models.RouteInfo{
		Routes: []models.RouteDescriptor{{Method: "GET", Path: "/restaurant-categories/:id", Handler: "api::restaurant.category.findOne"}},
	})

	result, err := New(reg).BuildAPIEndpointPath(models.API{Name: "restaurant", Kind: models.KindAPI, ContentTypes: []string{"category"}})
	require.NoError(t, err)

	op := operation(result.Paths, "/restaurant-categories/{id}", "get")
	require.NotNil(t, op)
	assert.Equal(t, []string{"Restaurant - category"}, op.Tags)
	assert.Contains(t, result.Schemas, "RestaurantCategoryResponse")
}

func TestBuildAPIEndpointPath_PluginWithoutContentTypes(t *testing.T) {
	b := New(newTestRegistry(t))

	result, err := b.BuildAPIEndpointPath(models.API{Name: "email", Kind: models.KindPlugin})
	require.NoError(t, err)

	post := operation(result.Paths, "/email", "post")
	require.NotNil(t, post)
	assert.Equal(t, []string{"Email"}, post.Tags)
	data := property(jsonSchema(post.RequestBody.Value.Content).Value, "data")
	assert.Equal(t, []string{"foo"}, keys(data.Properties))

	assert.NotNil(t, operation(result.Paths, "/email/settings", "get"))
	assert.Contains(t, result.Schemas, "EmailResponse")
}

func TestBuildAPIEndpointPath_PluginWithoutAdminRoutes(t *testing.T) {
	b := New(newTestRegistry(t))

	_, err := b.BuildAPIEndpointPath(models.API{Name: "i18n", Kind: models.KindPlugin})
	require.Error(t, err)
	assert.Equal(t, errors.InvalidRouteDescriptorCode, errors.CodeOf(err))
}

func TestBuildAPIEndpointPath_ApiWithoutContentTypes(t *testing.T) {
	b := New(newTestRegistry(t))

	result, err := b.BuildAPIEndpointPath(models.API{Name: "health", Kind: models.KindAPI})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Paths.Len())
	assert.Empty(t, result.Diagnostics)
}

func TestBuildAPIEndpointPath_UnknownContentType(t *testing.T) {
	b := New(newTestRegistry(t))

	result, err := b.BuildAPIEndpointPath(models.API{Name: "article", Kind: models.KindAPI, ContentTypes: []string{"article", "draft"}})
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.UnresolvedSchemaReferenceCode, result.Diagnostics[0].Code())
	assert.NotZero(t, result.Paths.Len(), "known content types are still documented")
}
