// Package documentation assembles the full OpenAPI document of a registry and
// writes, validates and encodes it.
package docgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/mod/semver"

	"github.com/toyz/apidoc/internal/builder"
	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/openapi"
	"github.com/toyz/apidoc/internal/registry"
)

const (
	DefaultTitle       = "DOCUMENTATION"
	DefaultVersion     = "1.0.0"
	DefaultServerURL   = "http://localhost:1337/api"
	DefaultDescription = ""
)

// Config holds the document metadata and the list classifier
type Config struct {
	Title       string
	Version     string
	Description string
	ServerURL   string

	// Classifier decides which handlers return lists; nil uses builder.DefaultClassifier
	Classifier builder.Classifier
}

// DefaultConfig returns the configuration used when no flag overrides it
func DefaultConfig() Config {
	return Config{
		Title:       DefaultTitle,
		Version:     DefaultVersion,
		Description: DefaultDescription,
		ServerURL:   DefaultServerURL,
	}
}

// Validate checks the version is a semantic version ("1.0.0", with or without a leading v)
func (c Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.WrapConfigurationError("title", fmt.Errorf("title cannot be empty"))
	}
	if !semver.IsValid(canonicalVersion(c.Version)) {
		return errors.WrapConfigurationError("version", fmt.Errorf("'%s' is not a semantic version", c.Version)).
			WithSuggestion("Use a version such as 1.0.0")
	}
	return nil
}

// DocumentVersion returns the version written into the document, without a leading v
func (c Config) DocumentVersion() string {
	return strings.TrimPrefix(c.Version, "v")
}

func canonicalVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// Report is the outcome of a generation run
type Report struct {
	Document    *openapi3.T
	Diagnostics []builder.Diagnostic
}

// HasErrors reports whether any route or content type was left out of the document
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == builder.SeverityError {
			return true
		}
	}
	return false
}

// Warnings counts the warning diagnostics
func (r *Report) Warnings() int {
	count := 0
	for _, d := range r.Diagnostics {
		if d.Severity == builder.SeverityWarning {
			count++
		}
	}
	return count
}

// Generator builds the full document of every api and plugin of a registry
type Generator struct {
	config   Config
	registry registry.Registry
	builder  *builder.Builder
}

// NewGenerator creates a generator after validating config
func NewGenerator(reg registry.Registry, config Config) (*Generator, error) {
	if reg == nil {
		return nil, errors.WrapConfigurationError("registry", fmt.Errorf("registry cannot be nil"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Generator{
		config:   config,
		registry: reg,
		builder:  builder.NewWithClassifier(reg, config.Classifier),
	}, nil
}

// Generate builds the document. Apis are visited in name order and ctx is
// checked between them.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	result := builder.NewResult()

	for _, api := range g.registry.APIs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		built, err := g.builder.BuildAPIEndpointPath(api)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, builder.Diagnostic{
				Severity: builder.SeverityError,
				Location: errors.Location{API: api.Name},
				Message:  "skipped",
				Err:      err,
			})
			continue
		}
		result.Merge(built)
	}

	result.Schemas[builder.ErrorSchemaName] = openapi.Inline(builder.ErrorSchema())

	return &Report{
		Document:    g.document(result),
		Diagnostics: result.Diagnostics,
	}, nil
}

func (g *Generator) document(result *builder.Result) *openapi3.T {
	doc := openapi.NewDocument(&openapi3.Info{
		Title:       g.config.Title,
		Description: g.config.Description,
		Version:     g.config.DocumentVersion(),
	})
	doc.Paths = result.Paths
	doc.Components.Schemas = result.Schemas

	if g.config.ServerURL != "" {
		doc.AddServer(&openapi3.Server{URL: g.config.ServerURL, Description: "Development server"})
	}

	return doc
}
