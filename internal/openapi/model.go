// Package openapi assembles OpenAPI 3.0 documents from kin-openapi objects.
package openapi

import (
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Version is the OpenAPI version written into generated documents
const Version = "3.0.1"

// SchemaRefPrefix is the JSON pointer prefix of component schema references
const SchemaRefPrefix = "#/components/schemas/"

// ContentTypeJSON is the only media type the builder emits
const ContentTypeJSON = "application/json"

// emptyRequestBodyKey carries the "requestBody: {}" of operations without a
// body. openapi3.RequestBody always writes its content key, even when nil.
const emptyRequestBodyKey = "requestBody"

var supportedMethods = []string{
	http.MethodConnect,
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPatch,
	http.MethodPost,
	http.MethodPut,
	http.MethodTrace,
}

// NewDocument creates a document with empty paths and schemas
func NewDocument(info *openapi3.Info) *openapi3.T {
	return &openapi3.T{
		OpenAPI: Version,
		Info:    info,
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}
}

// Typed returns a schema of a single JSON type
func Typed(typ string) *openapi3.Schema {
	return &openapi3.Schema{Type: &openapi3.Types{typ}}
}

// Object returns an object schema; nil properties are left out of the output
func Object(properties openapi3.Schemas) *openapi3.Schema {
	schema := Typed(openapi3.TypeObject)
	schema.Properties = properties
	return schema
}

// ArrayOf returns an array schema of items
func ArrayOf(items *openapi3.Schema) *openapi3.Schema {
	return Typed(openapi3.TypeArray).WithItems(items)
}

// Inline wraps a schema value without a reference
func Inline(schema *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", schema)
}

// Ref returns a reference to the named component schema
func Ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef(SchemaRefPrefix+name, nil)
}

// RefName returns the component name a reference points at
func RefName(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Ref == "" {
		return ""
	}
	return ref.Ref[strings.LastIndex(ref.Ref, "/")+1:]
}

// IsSupportedMethod reports whether method can be stored on a path item
func IsSupportedMethod(method string) bool {
	method = strings.ToUpper(method)
	for _, supported := range supportedMethods {
		if method == supported {
			return true
		}
	}
	return false
}

// SetOperation stores op under path and method, creating the path item when
// needed. The method must satisfy IsSupportedMethod.
func SetOperation(paths *openapi3.Paths, path, method string, op *openapi3.Operation) {
	item := paths.Value(path)
	if item == nil {
		item = &openapi3.PathItem{}
		paths.Set(path, item)
	}
	item.SetOperation(strings.ToUpper(method), op)
}

// MergePaths copies every operation of src into dst; later entries win
func MergePaths(dst, src *openapi3.Paths) {
	if src == nil {
		return
	}
	for path, item := range src.Map() {
		for method, op := range item.Operations() {
			SetOperation(dst, path, method, op)
		}
	}
}

// WithEmptyRequestBody marks op as documenting an empty request body object
func WithEmptyRequestBody(op *openapi3.Operation) *openapi3.Operation {
	op.RequestBody = nil
	if op.Extensions == nil {
		op.Extensions = make(map[string]any)
	}
	op.Extensions[emptyRequestBodyKey] = map[string]any{}
	return op
}

// HasEmptyRequestBody reports whether op was marked by WithEmptyRequestBody
func HasEmptyRequestBody(op *openapi3.Operation) bool {
	_, ok := op.Extensions[emptyRequestBodyKey]
	return ok && op.RequestBody == nil
}
