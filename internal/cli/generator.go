package cli

import (
	"context"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toyz/apidoc/internal/builder"
	documentation "github.com/toyz/apidoc/internal/documentation"
	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/registry"
	"github.com/toyz/apidoc/internal/server"
	"github.com/toyz/apidoc/internal/utils"
)

// Generator coordinates loading the registry, building, validating and
// writing the document
type Generator struct {
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary
}

// NewGenerator creates a CLI generator
func NewGenerator(diagnostics *utils.DiagnosticSystem, reporter *DiagnosticReporter) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if reporter == nil {
		reporter = NewDiagnosticReporter(false)
	}
	return &Generator{
		reporter:    reporter,
		diagnostics: diagnostics,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process and returns the written document
func (g *Generator) Run(ctx context.Context, config Config) (*openapi3.T, error) {
	startTime := time.Now()
	g.summary = GenerationSummary{}
	g.diagnostics.Verbose("Starting documentation generation at %s", startTime.Format("15:04:05"))

	g.diagnostics.PhaseHeader("Loading")
	reg, err := registry.LoadManifest(config.ManifestPath)
	if err != nil {
		return nil, err
	}
	apis := reg.APIs()
	g.summary.APIs = len(apis)
	g.diagnostics.PhaseItem("Registry manifest %s (%d apis and plugins)", config.ManifestPath, len(apis))
	for _, api := range apis {
		g.diagnostics.Debug("%s '%s' with content types %v", api.Kind, api.Name, api.ContentTypes)
	}

	generator, err := documentation.NewGenerator(reg, config.DocumentationConfig())
	if err != nil {
		return nil, err
	}

	g.diagnostics.PhaseHeader("Building")
	report, err := generator.Generate(ctx)
	if err != nil {
		return nil, err
	}
	g.recordReport(report)
	g.reporter.ReportDiagnostics(report.Diagnostics)
	g.diagnostics.PhaseItem("%d paths, %d operations, %d schemas", g.summary.Paths, g.summary.Operations, g.summary.Schemas)

	if config.Strict && report.HasErrors() {
		return nil, errors.Newf(errors.ValidationErrorCode, "%d registry entries were left out of the document", g.summary.Errors).
			WithSuggestion("Fix the reported routes or run without -strict to write a partial document")
	}

	if config.Validate {
		if err := documentation.Validate(ctx, report.Document); err != nil {
			return nil, err
		}
		g.diagnostics.PhaseItem("Document validated")
	}

	output := config.ResolvedOutputPath()
	g.diagnostics.PhaseHeader("Writing")
	g.diagnostics.PhaseProgress("Writing %s", output)
	if err := documentation.Write(report.Document, output, config.Format); err != nil {
		return nil, err
	}
	g.summary.OutputFile = output

	g.diagnostics.Verbose("Generation took %s", time.Since(startTime).Round(time.Millisecond))
	return report.Document, nil
}

func (g *Generator) recordReport(report *documentation.Report) {
	g.summary.Paths = report.Document.Paths.Len()
	for _, item := range report.Document.Paths.Map() {
		g.summary.Operations += len(item.Operations())
	}
	// the shared error schema is not counted
	g.summary.Schemas = len(report.Document.Components.Schemas) - 1
	for _, d := range report.Diagnostics {
		if d.Severity == builder.SeverityError {
			g.summary.Errors++
		} else {
			g.summary.Warnings++
		}
	}
}

// Serve serves doc on the configured address until ctx is done
func (g *Generator) Serve(ctx context.Context, doc *openapi3.T, config Config) error {
	web, err := server.NewWebServer(config.Framework)
	if err != nil {
		return errors.WrapConfigurationError("framework", err)
	}

	srv, err := server.New(web, doc, g.diagnostics)
	if err != nil {
		return err
	}
	return srv.Run(ctx, config.ServeAddr)
}
