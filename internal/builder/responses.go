package builder

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toyz/apidoc/internal/models"
	"github.com/toyz/apidoc/internal/openapi"
)

// errorStatuses are documented on every operation with the shared Error schema
var errorStatuses = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusInternalServerError,
}

// ResponseName returns the component schema name of a tag's success response
func ResponseName(tag string, isList bool) string {
	name := PascalCase(tag)
	if isList {
		name += "List"
	}
	return name + "Response"
}

// BuildResponses builds the status ladder of a route. DELETE routes return the
// id of the removed entity; every other route references its response stub.
func BuildResponses(tag string, route models.RouteDescriptor, isList bool) *openapi3.Responses {
	var schema *openapi3.SchemaRef
	if strings.EqualFold(route.Method, http.MethodDelete) {
		schema = openapi.Inline(openapi3.NewInt64Schema())
	} else {
		schema = openapi.Ref(ResponseName(tag, isList))
	}

	responses := openapi3.NewResponsesWithCapacity(len(errorStatuses) + 1)
	responses.Set(strconv.Itoa(http.StatusOK), &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(http.StatusText(http.StatusOK)).
			WithJSONSchemaRef(schema),
	})

	for _, status := range errorStatuses {
		responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(http.StatusText(status)).
				WithJSONSchemaRef(openapi.Ref(ErrorSchemaName)),
		})
	}

	return responses
}

// Meta returns the meta block of a response stub; list responses document pagination
func Meta(isList bool) *openapi3.Schema {
	if !isList {
		return openapi.Typed(openapi3.TypeObject)
	}

	return openapi.Object(openapi3.Schemas{
		"pagination": openapi.Inline(&openapi3.Schema{
			Properties: openapi3.Schemas{
				"page":      openapi.Inline(openapi3.NewIntegerSchema()),
				"pageSize":  openapi.Inline(openapi3.NewIntegerSchema().WithMin(25)),
				"pageCount": openapi.Inline(openapi3.NewIntegerSchema().WithMax(1)),
				"total":     openapi.Inline(openapi3.NewIntegerSchema()),
			},
		}),
	})
}

// PascalCase splits s into words and upper-cases the first letter of each
// ("restaurant - category" becomes "RestaurantCategory").
func PascalCase(s string) string {
	var b strings.Builder
	for _, word := range words(s) {
		b.WriteString(UpperFirst(word))
	}
	return b.String()
}

// UpperFirst upper-cases the first letter of s, leaving the rest untouched
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// words splits on non alphanumerics, lower-to-upper case changes, the end of
// an acronym ("HTMLParser" gives "HTML", "Parser") and letter/digit boundaries.
func words(s string) []string {
	var result []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			result = append(result, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if len(current) > 0 {
			prev := current[len(current)-1]
			switch {
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return result
}
