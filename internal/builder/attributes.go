package builder

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/models"
	"github.com/toyz/apidoc/internal/openapi"
	"github.com/toyz/apidoc/internal/registry"
)

// uploadFileAttributes documents media attributes when the registry does not
// declare the upload plugin's file content type.
var uploadFileAttributes = models.AttributeMap{
	"name":              {Type: models.AttributeString},
	"alternativeText":   {Type: models.AttributeString},
	"caption":           {Type: models.AttributeString},
	"width":             {Type: models.AttributeInteger},
	"height":            {Type: models.AttributeInteger},
	"formats":           {Type: models.AttributeJSON},
	"hash":              {Type: models.AttributeString},
	"ext":               {Type: models.AttributeString},
	"mime":              {Type: models.AttributeString},
	"size":              {Type: models.AttributeDecimal},
	"url":               {Type: models.AttributeString},
	"previewUrl":        {Type: models.AttributeString},
	"provider":          {Type: models.AttributeString},
	"provider_metadata": {Type: models.AttributeJSON},
}

// SchemaCleaner turns attribute maps into JSON schema properties, dropping
// fields that must not be documented.
type SchemaCleaner struct {
	registry registry.Registry
}

// NewSchemaCleaner creates a cleaner resolving components and relation targets through reg
func NewSchemaCleaner(reg registry.Registry) *SchemaCleaner {
	return &SchemaCleaner{registry: reg}
}

type cleanState struct {
	isRequest bool

	// visited holds relation targets already expanded; later references get an empty shape
	visited map[string]bool

	// components holds the component uids being expanded, cutting cycles
	components map[string]bool
}

// Clean maps every documentable attribute to its schema. Private attributes
// are dropped, and passwords only appear in request bodies.
func (c *SchemaCleaner) Clean(attrs models.AttributeMap, isRequest bool) (openapi3.Schemas, error) {
	return c.clean(attrs, &cleanState{
		isRequest:  isRequest,
		visited:    make(map[string]bool),
		components: make(map[string]bool),
	})
}

func (c *SchemaCleaner) clean(attrs models.AttributeMap, state *cleanState) (openapi3.Schemas, error) {
	properties := make(openapi3.Schemas, len(attrs))

	for _, name := range attrs.Names() {
		attr := attrs[name]
		if attr.Private {
			continue
		}

		schema, err := c.attributeSchema(name, attr, state)
		if err != nil {
			return nil, err
		}
		if schema != nil {
			properties[name] = openapi.Inline(schema)
		}
	}

	return properties, nil
}

// attributeSchema returns nil for attributes omitted from the document
func (c *SchemaCleaner) attributeSchema(name string, attr models.Attribute, state *cleanState) (*openapi3.Schema, error) {
	switch attr.Type {
	case models.AttributePassword:
		if !state.isRequest {
			return nil, nil
		}
		schema := openapi3.NewStringSchema().WithFormat("password")
		schema.Example = "*******"
		return schema, nil
	case models.AttributeEmail:
		return openapi3.NewStringSchema().WithFormat("email"), nil
	case models.AttributeString, models.AttributeText, models.AttributeRichText, models.AttributeUID:
		return openapi3.NewStringSchema(), nil
	case models.AttributeTimestamp:
		return openapi3.NewStringSchema().WithFormat("timestamp"), nil
	case models.AttributeTime:
		schema := openapi3.NewStringSchema().WithFormat("time")
		schema.Example = "12:54.000"
		return schema, nil
	case models.AttributeDate:
		return openapi3.NewStringSchema().WithFormat("date"), nil
	case models.AttributeDateTime:
		return openapi3.NewStringSchema().WithFormat("date-time"), nil
	case models.AttributeBoolean:
		return openapi3.NewBoolSchema(), nil
	case models.AttributeEnumeration:
		values := make([]any, 0, len(attr.Enum))
		for _, value := range attr.Enum {
			values = append(values, value)
		}
		return openapi3.NewStringSchema().WithEnum(values...), nil
	case models.AttributeDecimal, models.AttributeFloat:
		return openapi3.NewFloat64Schema().WithFormat("float"), nil
	case models.AttributeInteger:
		return openapi3.NewIntegerSchema(), nil
	case models.AttributeBigInteger:
		schema := openapi3.NewStringSchema().WithPattern(`^\d*$`)
		schema.Example = "123456789"
		return schema, nil
	case models.AttributeJSON:
		return &openapi3.Schema{}, nil
	case models.AttributeComponent:
		return c.componentSchema(name, attr, state)
	case models.AttributeDynamicZone:
		return c.dynamicZoneSchema(name, attr, state)
	case models.AttributeMedia:
		return c.mediaSchema(attr, state)
	case models.AttributeRelation:
		return c.relationSchema(name, attr, state)
	default:
		return nil, errors.NewInvalidAttribute(name, attr.Type)
	}
}

// componentProperties cleans a component's attributes, adding its id to responses
func (c *SchemaCleaner) componentProperties(name, uid string, state *cleanState) (openapi3.Schemas, error) {
	if c.registry == nil {
		return nil, errors.NewUnresolvedSchemaReference("component", uid, name)
	}
	component, ok := c.registry.Component(uid)
	if !ok {
		return nil, errors.NewUnresolvedSchemaReference("component", uid, name)
	}

	if state.components[uid] {
		return openapi3.Schemas{}, nil
	}
	state.components[uid] = true
	defer delete(state.components, uid)

	properties, err := c.clean(component.Attributes, state)
	if err != nil {
		return nil, err
	}
	if !state.isRequest {
		properties["id"] = openapi.Inline(openapi3.NewFloat64Schema())
	}
	return properties, nil
}

func (c *SchemaCleaner) componentSchema(name string, attr models.Attribute, state *cleanState) (*openapi3.Schema, error) {
	properties, err := c.componentProperties(name, attr.Component, state)
	if err != nil {
		return nil, err
	}

	object := openapi.Object(properties)
	if attr.Repeatable {
		return openapi.ArrayOf(object), nil
	}
	return object, nil
}

func (c *SchemaCleaner) dynamicZoneSchema(name string, attr models.Attribute, state *cleanState) (*openapi3.Schema, error) {
	variants := make(openapi3.SchemaRefs, 0, len(attr.Components))
	for _, uid := range attr.Components {
		properties, err := c.componentProperties(name, uid, state)
		if err != nil {
			return nil, err
		}
		properties["__component"] = openapi.Inline(openapi3.NewStringSchema())
		variants = append(variants, openapi.Inline(openapi.Object(properties)))
	}

	return openapi.ArrayOf(&openapi3.Schema{AnyOf: variants}), nil
}

// idOrUID accepts either a numeric id or a string identifier in request bodies
func idOrUID(isList bool, example any) *openapi3.Schema {
	oneOf := &openapi3.Schema{
		OneOf: openapi3.SchemaRefs{
			openapi.Inline(openapi3.NewIntegerSchema()),
			openapi.Inline(openapi3.NewStringSchema()),
		},
		Example: example,
	}
	if isList {
		return openapi.ArrayOf(oneOf)
	}
	return oneOf
}

func (c *SchemaCleaner) mediaSchema(attr models.Attribute, state *cleanState) (*openapi3.Schema, error) {
	if state.isRequest {
		return idOrUID(attr.Multiple, nil), nil
	}

	fileAttributes := uploadFileAttributes
	if c.registry != nil {
		if file, ok := c.registry.ContentType(models.UploadFileUID); ok {
			fileAttributes = file.Attributes
		}
	}

	properties, err := c.clean(fileAttributes, state)
	if err != nil {
		return nil, err
	}

	return openapi.Object(openapi3.Schemas{
		"data": openapi.Inline(SchemaData(attr.Multiple, properties)),
	}), nil
}

func (c *SchemaCleaner) relationSchema(name string, attr models.Attribute, state *cleanState) (*openapi3.Schema, error) {
	isList := strings.Contains(attr.Relation, "ToMany")

	if state.isRequest {
		return idOrUID(isList, "string or id"), nil
	}

	wrap := func(properties openapi3.Schemas) *openapi3.Schema {
		return openapi.Object(openapi3.Schemas{
			"data": openapi.Inline(SchemaData(isList, properties)),
		})
	}

	if attr.Target == "" || state.visited[attr.Target] {
		return wrap(openapi3.Schemas{}), nil
	}
	state.visited[attr.Target] = true

	if c.registry == nil {
		return nil, errors.NewUnresolvedSchemaReference("content type", attr.Target, name)
	}
	target, ok := c.registry.ContentType(attr.Target)
	if !ok {
		return nil, errors.NewUnresolvedSchemaReference("content type", attr.Target, name)
	}

	properties, err := c.clean(target.Attributes, state)
	if err != nil {
		return nil, err
	}
	return wrap(properties), nil
}
