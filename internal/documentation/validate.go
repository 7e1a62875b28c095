package docgen

import (
	"context"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/openapi"
)

// Validate resolves every $ref of doc in place with the kin-openapi loader and
// checks each component schema. Operations are not validated as a whole since
// bodiless operations carry an empty requestBody object.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if doc == nil {
		return errors.WrapValidationError("document", fmt.Errorf("document cannot be nil"))
	}
	if doc.OpenAPI != openapi.Version {
		return errors.WrapValidationError("document", fmt.Errorf("unexpected openapi version '%s'", doc.OpenAPI))
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	if err := loader.ResolveRefsIn(doc, nil); err != nil {
		return errors.WrapValidationError("document", err)
	}

	var schemas openapi3.Schemas
	if doc.Components != nil {
		schemas = doc.Components.Schemas
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	multi := errors.NewMultipleErrors()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		schema := schemas[name]
		if schema == nil || schema.Value == nil {
			multi.Add(errors.WrapValidationError(fmt.Sprintf("schema '%s'", name), fmt.Errorf("schema has no value")))
			continue
		}
		if err := schema.Value.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			multi.Add(errors.WrapValidationError(fmt.Sprintf("schema '%s'", name), err))
		}
	}
	return multi.ErrorOrNil()
}
