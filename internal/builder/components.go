package builder

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toyz/apidoc/internal/openapi"
)

// ErrorSchemaName is the shared component referenced by every error response
const ErrorSchemaName = "Error"

// ErrorSchema is the body of framework error responses
func ErrorSchema() *openapi3.Schema {
	schema := openapi.Object(openapi3.Schemas{
		"data": openapi.Inline(&openapi3.Schema{
			Nullable: true,
			OneOf: openapi3.SchemaRefs{
				openapi.Inline(openapi.Typed(openapi3.TypeObject)),
				openapi.Inline(openapi.ArrayOf(&openapi3.Schema{})),
			},
		}),
		"error": openapi.Inline(openapi.Object(openapi3.Schemas{
			"status":  openapi.Inline(openapi3.NewIntegerSchema()),
			"name":    openapi.Inline(openapi3.NewStringSchema()),
			"message": openapi.Inline(openapi3.NewStringSchema()),
			"details": openapi.Inline(openapi.Typed(openapi3.TypeObject)),
		})),
	})
	schema.Required = []string{"error"}
	return schema
}

// QueryParams returns the pagination, sorting and filtering parameters
// accepted by every list operation. Each call returns a fresh slice.
func QueryParams() openapi3.Parameters {
	query := func(name, description string, schema *openapi3.Schema) *openapi3.Parameter {
		return openapi3.NewQueryParameter(name).
			WithDescription(description).
			WithRequired(false).
			WithSchema(schema)
	}

	filters := query("filters", "Filters to apply", openapi.Typed(openapi3.TypeObject))
	filters.Style = openapi3.SerializationDeepObject

	params := []*openapi3.Parameter{
		query("sort", "Sort by attributes ascending (asc) or descending (desc)", openapi3.NewStringSchema()),
		query("pagination[withCount]", "Return page/pageSize (default: true)", openapi3.NewBoolSchema()),
		query("pagination[page]", "Page number (default: 0)", openapi3.NewIntegerSchema()),
		query("pagination[pageSize]", "Page size (default: 25)", openapi3.NewIntegerSchema()),
		query("pagination[start]", "Offset value (default: 0)", openapi3.NewIntegerSchema()),
		query("pagination[limit]", "Number of entities to return (default: 25)", openapi3.NewIntegerSchema()),
		query("fields", "Fields to return (ex: title,author)", openapi3.NewStringSchema()),
		query("populate", "Relations to return", openapi3.NewStringSchema()),
		filters,
		query("locale", "Locale to apply", openapi3.NewStringSchema()),
	}

	refs := make(openapi3.Parameters, 0, len(params))
	for _, param := range params {
		refs = append(refs, &openapi3.ParameterRef{Value: param})
	}
	return refs
}

// SchemaData wraps entity properties into the {id, attributes} envelope, or a
// list of such envelopes.
func SchemaData(isList bool, properties openapi3.Schemas) *openapi3.Schema {
	entity := openapi.Object(openapi3.Schemas{
		"id":         openapi.Inline(openapi3.NewFloat64Schema()),
		"attributes": openapi.Inline(openapi.Object(properties)),
	})

	if isList {
		return openapi.ArrayOf(entity)
	}
	return entity
}
