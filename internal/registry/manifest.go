package registry

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/models"
)

// Manifest is the on-disk description of a registry. JSON manifests are
// accepted as well since JSON is a subset of YAML.
type Manifest struct {
	APIs         []APIManifest             `yaml:"apis"`
	ContentTypes map[string]SchemaManifest `yaml:"contentTypes"`
	Components   map[string]SchemaManifest `yaml:"components"`
}

// APIManifest declares an api or plugin. Routes are keyed by content type
// name for apis and by scope ("content-api", "admin") for plugins.
type APIManifest struct {
	Name         string                       `yaml:"name"`
	Kind         models.APIKind               `yaml:"kind"`
	ContentTypes []string                     `yaml:"contentTypes"`
	Routes       map[string]*models.RouteInfo `yaml:"routes"`
}

// SchemaManifest holds the attributes of a content type or component
type SchemaManifest struct {
	Attributes models.AttributeMap `yaml:"attributes"`
}

// ParseManifest decodes a manifest, rejecting unknown fields
func ParseManifest(data []byte) (*Manifest, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var manifest Manifest
	if err := decoder.Decode(&manifest); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.RegistryErrorCode, "registry manifest is empty")
		}
		return nil, errors.WrapRegistryError("decode", "registry manifest", err)
	}
	return &manifest, nil
}

// LoadManifest reads a manifest file and builds its registry
func LoadManifest(path string) (*InMemoryRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return manifest.Registry()
}

// Registry registers every manifest entry, reporting all problems at once
func (m *Manifest) Registry() (*InMemoryRegistry, error) {
	reg := NewInMemoryRegistry()
	problems := errors.NewMultipleErrors()

	report := func(item string, err error) {
		problems.Add(errors.WrapRegistryError("register", item, err))
	}

	for uid, schema := range m.ContentTypes {
		if err := reg.RegisterContentType(models.ContentType{UID: uid, Attributes: schema.Attributes}); err != nil {
			report(fmt.Sprintf("content type '%s'", uid), err)
		}
	}

	for uid, schema := range m.Components {
		if err := reg.RegisterComponent(models.Component{UID: uid, Attributes: schema.Attributes}); err != nil {
			report(fmt.Sprintf("component '%s'", uid), err)
		}
	}

	for _, entry := range m.APIs {
		api := models.API{Name: entry.Name, Kind: entry.Kind, ContentTypes: entry.ContentTypes}
		if api.Kind == "" {
			api.Kind = models.KindAPI
		}
		if err := reg.RegisterAPI(api); err != nil {
			report(fmt.Sprintf("api '%s'", entry.Name), err)
			continue
		}

		for group, info := range entry.Routes {
			if api.IsPlugin() {
				reg.RegisterPluginRoutes(api.Name, group, info)
			} else {
				reg.RegisterRoutes(api.Name, group, info)
			}
		}
	}

	if err := problems.ErrorOrNil(); err != nil {
		return nil, err
	}
	return reg, nil
}
