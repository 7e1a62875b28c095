package cli

import (
	"github.com/toyz/apidoc/internal/builder"
	documentation "github.com/toyz/apidoc/internal/documentation"
	"github.com/toyz/apidoc/internal/server"
)

// Config holds the configuration of one CLI run
type Config struct {
	// ManifestPath is the registry manifest (YAML or JSON) to document
	ManifestPath string

	// OutputPath is the document file; empty writes
	// documentation/<version>/full_documentation.<format>
	OutputPath string
	Format     documentation.Format

	// Document metadata
	Title       string
	Version     string
	Description string
	ServerURL   string

	// ListActions names the handler actions documented as lists; empty keeps
	// the default (find)
	ListActions []string

	// Validate loads the generated document back with an OpenAPI loader
	Validate bool

	// Strict fails the run when any route or content type was skipped
	Strict bool

	// ServeAddr serves the document after writing it when set
	ServeAddr string
	Framework server.Framework

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

// DefaultConfig returns the configuration used when no flag overrides it
func DefaultConfig() Config {
	doc := documentation.DefaultConfig()
	return Config{
		Format:      documentation.FormatJSON,
		Title:       doc.Title,
		Version:     doc.Version,
		Description: doc.Description,
		ServerURL:   doc.ServerURL,
		Framework:   server.FrameworkEcho,
	}
}

// DocumentationConfig returns the document metadata and list classifier of the run
func (c Config) DocumentationConfig() documentation.Config {
	config := documentation.Config{
		Title:       c.Title,
		Version:     c.Version,
		Description: c.Description,
		ServerURL:   c.ServerURL,
	}
	if len(c.ListActions) > 0 {
		config.Classifier = builder.ActionClassifier(c.ListActions...)
	}
	return config
}

// ResolvedOutputPath returns OutputPath or the versioned default
func (c Config) ResolvedOutputPath() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return documentation.DefaultOutputPath(c.Version, c.Format)
}
