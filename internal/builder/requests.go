package builder

import (
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toyz/apidoc/internal/models"
	"github.com/toyz/apidoc/internal/openapi"
)

// IsMutating reports whether the verb carries a request body
func IsMutating(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut:
		return true
	default:
		return false
	}
}

// BuildRequest builds the request body of a mutating route. POST bodies only
// list the required attributes when the content type declares any.
func (c *SchemaCleaner) BuildRequest(attrs models.AttributeMap, route models.RouteDescriptor) (*openapi3.RequestBodyRef, error) {
	requestAttributes := attrs
	if strings.EqualFold(route.Method, http.MethodPost) {
		if required := attrs.Required(); len(required) > 0 {
			requestAttributes = required
		}
	}

	properties, err := c.Clean(requestAttributes, true)
	if err != nil {
		return nil, err
	}

	body := &openapi3.Schema{
		Properties: openapi3.Schemas{
			"data": openapi.Inline(openapi.Object(properties)),
		},
	}
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(body),
	}, nil
}
