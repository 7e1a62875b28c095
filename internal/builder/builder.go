// Package builder turns registry route groups and attribute maps into OpenAPI
// paths and response schema stubs.
package builder

import (
	"reflect"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/models"
	"github.com/toyz/apidoc/internal/openapi"
	"github.com/toyz/apidoc/internal/registry"
)

// placeholderAttributes document plugins that declare no content type
var placeholderAttributes = models.AttributeMap{
	"foo": {Type: models.AttributeString},
}

// APIInfo is the input of one route group transformation
type APIInfo struct {
	RouteInfo  *models.RouteInfo
	Attributes models.AttributeMap
	Tag        string

	// Location scopes diagnostics (api and content type)
	Location errors.Location
}

// Result holds the paths and schema stubs built for one or more route groups
type Result struct {
	Paths       *openapi3.Paths
	Schemas     openapi3.Schemas
	Diagnostics []Diagnostic
}

// NewResult creates an empty result
func NewResult() *Result {
	return &Result{
		Paths:   openapi3.NewPaths(),
		Schemas: make(openapi3.Schemas),
	}
}

// SetSchema stores a schema stub. A name already holding a different body
// is overwritten and reported, since stub names derive from the tag only.
func (r *Result) SetSchema(name string, schema *openapi3.SchemaRef, loc errors.Location) {
	if existing, ok := r.Schemas[name]; ok && !reflect.DeepEqual(existing, schema) {
		r.Diagnostics = append(r.Diagnostics, warningDiagnostic(loc, "schema '%s' redefined with a different shape", name))
	}
	r.Schemas[name] = schema
}

// Merge unions other into r; later paths, methods and schemas win
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	openapi.MergePaths(r.Paths, other.Paths)

	for _, name := range sortedKeys(other.Schemas) {
		r.SetSchema(name, other.Schemas[name], errors.Location{})
	}

	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// HasErrors reports whether any entry was skipped
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Builder builds documentation fragments from registry entries
type Builder struct {
	registry   registry.Registry
	cleaner    *SchemaCleaner
	classifier Classifier
}

// New creates a builder using the default list classifier
func New(reg registry.Registry) *Builder {
	return NewWithClassifier(reg, DefaultClassifier)
}

// NewWithClassifier creates a builder with a custom list classifier
func NewWithClassifier(reg registry.Registry, classifier Classifier) *Builder {
	if classifier == nil {
		classifier = DefaultClassifier
	}
	return &Builder{
		registry:   reg,
		cleaner:    NewSchemaCleaner(reg),
		classifier: classifier,
	}
}

// BuildAPIEndpointPath builds the paths and schemas of every content type of
// an api. A plugin without content types is documented from its admin routes
// with a single placeholder attribute.
func (b *Builder) BuildAPIEndpointPath(api models.API) (*Result, error) {
	if len(api.ContentTypes) == 0 && api.IsPlugin() {
		info, _ := b.registry.PluginRoutes(api.Name, models.ScopeAdmin)
		return b.BuildRoutePathsAndSchemas(APIInfo{
			RouteInfo:  info,
			Attributes: placeholderAttributes,
			Tag:        api.Name,
			Location:   errors.Location{API: api.Name},
		})
	}

	result := NewResult()
	for _, contentTypeName := range api.ContentTypes {
		loc := errors.Location{API: api.Name, ContentType: contentTypeName}
		uid := api.ContentTypeUID(contentTypeName)

		contentType, ok := b.registry.ContentType(uid)
		if !ok {
			result.Diagnostics = append(result.Diagnostics,
				errorDiagnostic(loc, errors.NewUnresolvedSchemaReference("content type", uid, contentTypeName).WithLocation(loc)))
			continue
		}

		var info *models.RouteInfo
		if api.IsPlugin() {
			info, _ = b.registry.PluginRoutes(api.Name, models.ScopeContentAPI)
		} else {
			info, _ = b.registry.Routes(api.Name, contentTypeName)
		}

		built, err := b.BuildRoutePathsAndSchemas(APIInfo{
			RouteInfo:  info,
			Attributes: contentType.Attributes,
			Tag:        api.Tag(contentTypeName),
			Location:   loc,
		})
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, errorDiagnostic(loc, err))
			continue
		}
		result.Merge(built)
	}

	return result, nil
}

// BuildRoutePathsAndSchemas transforms one route group. A group without
// routes is rejected; a malformed route is skipped and reported while the
// remaining routes are still built.
func (b *Builder) BuildRoutePathsAndSchemas(info APIInfo) (*Result, error) {
	if info.RouteInfo == nil || info.RouteInfo.Routes == nil {
		return nil, errors.NewInvalidRouteDescriptor("routes", info.Location)
	}

	result := NewResult()
	group := &groupState{info: info}

	for _, route := range info.RouteInfo.Routes {
		loc := info.Location
		loc.Route = route.String()

		if err := validateRoute(route, loc); err != nil {
			result.Diagnostics = append(result.Diagnostics, errorDiagnostic(loc, err))
			continue
		}

		classification := b.classifier(route)
		if classification == Ambiguous {
			result.Diagnostics = append(result.Diagnostics,
				warningDiagnostic(loc, "handler '%s' may return a list; documented as a single entity", route.Handler))
		}
		isList := classification == List

		path, op, stubs, err := b.buildRoute(group, route, isList)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, errorDiagnostic(loc, err))
			continue
		}

		openapi.SetOperation(result.Paths, path, route.Method, op)
		for _, name := range sortedKeys(stubs) {
			result.SetSchema(name, stubs[name], loc)
		}
	}

	return result, nil
}

// groupState caches the cleaned response attributes of a route group
type groupState struct {
	info       APIInfo
	cleaned    openapi3.Schemas
	cleanErr   error
	cleanReady bool
}

func (b *Builder) responseAttributes(group *groupState) (openapi3.Schemas, error) {
	if !group.cleanReady {
		group.cleaned, group.cleanErr = b.cleaner.Clean(group.info.Attributes, false)
		group.cleanReady = true
	}
	return group.cleaned, group.cleanErr
}

func (b *Builder) buildRoute(group *groupState, route models.RouteDescriptor, isList bool) (string, *openapi3.Operation, openapi3.Schemas, error) {
	info := group.info

	routePath, err := RoutePath(info.RouteInfo.Prefix, route.Path)
	if err != nil {
		return "", nil, nil, err
	}

	responses := BuildResponses(info.Tag, route, isList)

	stubs := make(openapi3.Schemas)
	for _, status := range sortedKeys(responses.Map()) {
		for _, media := range responses.Value(status).Value.Content {
			name := openapi.RefName(media.Schema)
			if name == "" || name == ErrorSchemaName {
				continue
			}

			properties, err := b.responseAttributes(group)
			if err != nil {
				return "", nil, nil, err
			}
			stubs[name] = openapi.Inline(openapi.Object(openapi3.Schemas{
				"data": openapi.Inline(SchemaData(isList, properties)),
				"meta": openapi.Inline(Meta(isList)),
			}))
		}
	}

	op := openapi3.NewOperation()
	op.Responses = responses
	op.Tags = []string{UpperFirst(info.Tag)}

	if isList {
		op.Parameters = append(op.Parameters, QueryParams()...)
	}

	if HasPathParams(route.Path) {
		params, err := PathParams(route.Path)
		if err != nil {
			return "", nil, nil, err
		}
		op.Parameters = append(op.Parameters, params...)
	}

	if IsMutating(route.Method) {
		op.RequestBody, err = b.cleaner.BuildRequest(info.Attributes, route)
		if err != nil {
			return "", nil, nil, err
		}
	} else {
		openapi.WithEmptyRequestBody(op)
	}

	return routePath, op, stubs, nil
}

func validateRoute(route models.RouteDescriptor, loc errors.Location) error {
	switch {
	case strings.TrimSpace(route.Method) == "":
		return errors.NewInvalidRouteDescriptor("method", loc)
	case strings.TrimSpace(route.Path) == "":
		return errors.NewInvalidRouteDescriptor("path", loc)
	case strings.TrimSpace(route.Handler) == "":
		return errors.NewInvalidRouteDescriptor("handler", loc)
	case !openapi.IsSupportedMethod(route.Method):
		return errors.NewUnsupportedMethod(route.Method, loc)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
