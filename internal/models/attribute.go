package models

import "sort"

// Attribute type tags understood by the schema builder
const (
	AttributeString      = "string"
	AttributeText        = "text"
	AttributeRichText    = "richtext"
	AttributeEmail       = "email"
	AttributePassword    = "password"
	AttributeUID         = "uid"
	AttributeEnumeration = "enumeration"
	AttributeInteger     = "integer"
	AttributeBigInteger  = "biginteger"
	AttributeFloat       = "float"
	AttributeDecimal     = "decimal"
	AttributeBoolean     = "boolean"
	AttributeDate        = "date"
	AttributeTime        = "time"
	AttributeDateTime    = "datetime"
	AttributeTimestamp   = "timestamp"
	AttributeJSON        = "json"
	AttributeMedia       = "media"
	AttributeRelation    = "relation"
	AttributeComponent   = "component"
	AttributeDynamicZone = "dynamiczone"
)

// Attribute is a field-type descriptor: a type tag plus its modifiers
type Attribute struct {
	Type     string      `json:"type" yaml:"type"`
	Required bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Private  bool        `json:"private,omitempty" yaml:"private,omitempty"`
	Default  interface{} `json:"default,omitempty" yaml:"default,omitempty"`

	// Enum lists the allowed values of an enumeration
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Relation is the relation kind (oneToOne, oneToMany, manyToMany, ...) and Target its content type uid
	Relation string `json:"relation,omitempty" yaml:"relation,omitempty"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`

	// Component is the component uid of a component attribute
	Component  string `json:"component,omitempty" yaml:"component,omitempty"`
	Repeatable bool   `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`

	// Components lists the component uids allowed in a dynamic zone
	Components []string `json:"components,omitempty" yaml:"components,omitempty"`

	// Multiple marks a media attribute holding several files
	Multiple bool `json:"multiple,omitempty" yaml:"multiple,omitempty"`
}

// AttributeMap maps field names to their descriptors
type AttributeMap map[string]Attribute

// Names returns the attribute names in sorted order
func (m AttributeMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Required returns the subset of attributes marked as required
func (m AttributeMap) Required() AttributeMap {
	required := make(AttributeMap)
	for name, attr := range m {
		if attr.Required {
			required[name] = attr
		}
	}
	return required
}
