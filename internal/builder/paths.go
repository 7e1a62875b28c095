package builder

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/pathtemplate"
)

// PathWithPrefix joins a route prefix and path. Localization routes keep
// their bare path and a path ending in "/" resolves to the prefix alone.
func PathWithPrefix(prefix, path string) string {
	if strings.Contains(path, "localizations") {
		return path
	}

	if strings.HasSuffix(path, "/") {
		return prefix
	}

	return prefix + path
}

// HasPathParams reports whether the route path declares ':name' parameters
func HasPathParams(path string) bool {
	return strings.Contains(path, "/:")
}

// RoutePath computes the OpenAPI path template of a route
func RoutePath(prefix, path string) (string, error) {
	pathWithPrefix := path
	if prefix != "" {
		pathWithPrefix = PathWithPrefix(prefix, path)
	}

	if !HasPathParams(path) {
		return pathWithPrefix, nil
	}

	routePath, err := pathtemplate.ToOpenAPI(pathWithPrefix)
	if err != nil {
		return "", errors.WrapPathTemplateError(pathWithPrefix, err)
	}
	return routePath, nil
}

// PathParams builds one required string path parameter per ':name' token, in order
func PathParams(path string) (openapi3.Parameters, error) {
	tokens, err := pathtemplate.Params(path)
	if err != nil {
		return nil, errors.WrapPathTemplateError(path, err)
	}

	params := make(openapi3.Parameters, 0, len(tokens))
	for _, token := range tokens {
		params = append(params, &openapi3.ParameterRef{
			Value: openapi3.NewPathParameter(token.Value).WithSchema(openapi3.NewStringSchema()),
		})
	}
	return params, nil
}
