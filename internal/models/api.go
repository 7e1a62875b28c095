package models

import "fmt"

// APIKind distinguishes application APIs from plugins
type APIKind string

const (
	KindAPI    APIKind = "api"
	KindPlugin APIKind = "plugin"
)

// UploadFileUID is the content type describing uploaded media files
const UploadFileUID = "plugin::upload.file"

// API is an application API or plugin and the content types it declares
type API struct {
	Name         string   `json:"name" yaml:"name"`
	Kind         APIKind  `json:"kind" yaml:"kind"`
	ContentTypes []string `json:"contentTypes,omitempty" yaml:"contentTypes,omitempty"`
}

// IsPlugin reports whether the API is provided by a plugin
func (a API) IsPlugin() bool {
	return a.Kind == KindPlugin
}

// ContentTypeUID returns the uid of one of the API's content types
func (a API) ContentTypeUID(contentType string) string {
	return ContentTypeUID(a.Kind, a.Name, contentType)
}

// Tag returns the documentation tag for one of the API's content types
func (a API) Tag(contentType string) string {
	if a.Name == contentType {
		return a.Name
	}
	return fmt.Sprintf("%s - %s", a.Name, contentType)
}

// ContentTypeUID formats a content type uid as "<kind>::<api>.<contentType>"
func ContentTypeUID(kind APIKind, api, contentType string) string {
	return fmt.Sprintf("%s::%s.%s", kind, api, contentType)
}

// ContentType is a named, attribute-typed schema registered with the framework
type ContentType struct {
	UID        string       `json:"uid" yaml:"uid"`
	Attributes AttributeMap `json:"attributes" yaml:"attributes"`
}

// Component is a reusable attribute group referenced by component and dynamic zone attributes
type Component struct {
	UID        string       `json:"uid" yaml:"uid"`
	Attributes AttributeMap `json:"attributes" yaml:"attributes"`
}
