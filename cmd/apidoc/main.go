package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/toyz/apidoc/internal/cli"
	documentation "github.com/toyz/apidoc/internal/documentation"
	"github.com/toyz/apidoc/internal/server"
	"github.com/toyz/apidoc/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defaults := cli.DefaultConfig()
	flags := flag.NewFlagSet("apidoc", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		outputFlag      = flags.String("output", "", "Output file (defaults to documentation/<version>/full_documentation.<format>)")
		formatFlag      = flags.String("format", string(defaults.Format), "Output format: json or yaml")
		titleFlag       = flags.String("title", defaults.Title, "Document title")
		versionFlag     = flags.String("version", defaults.Version, "Document version (semantic version)")
		descriptionFlag = flags.String("description", defaults.Description, "Document description")
		serverFlag      = flags.String("server", defaults.ServerURL, "Server URL written into the document (empty to omit)")
		listActionsFlag = flags.String("list-actions", "find", "Comma separated handler actions documented as lists (e.g. find,findMany)")
		validateFlag    = flags.Bool("validate", false, "Load the generated document back with an OpenAPI loader before writing")
		strictFlag      = flags.Bool("strict", false, "Fail when any route or content type is skipped")
		serveFlag       = flags.String("serve", "", "Serve the document on this address after writing it (e.g. :8080)")
		frameworkFlag   = flags.String("framework", string(defaults.Framework), "Web framework used by -serve: echo, gin or fiber")
		verboseFlag     = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag       = flags.Bool("quiet", false, "Only show errors and final results")
		cleanFlag       = flags.Bool("clean", false, "Delete generated documentation files from the documentation directory")
		helpFlag        = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: apidoc [options] <registry-manifest>\n\n")
		fmt.Fprintf(stderr, "OpenAPI Documentation Generator\n")
		fmt.Fprintf(stderr, "Builds an OpenAPI 3.0 document from the routes and content types of a registry manifest.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  registry-manifest  YAML or JSON file listing apis, plugins, content types, components and routes\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  apidoc registry.yaml                          # Write documentation/1.0.0/full_documentation.json\n")
		fmt.Fprintf(stderr, "  apidoc -format yaml -version 2.0.0 registry.yaml\n")
		fmt.Fprintf(stderr, "  apidoc -output openapi.json -validate registry.yaml\n")
		fmt.Fprintf(stderr, "  apidoc -list-actions find,findMany registry.yaml\n")
		fmt.Fprintf(stderr, "  apidoc -serve :8080 -framework gin registry.yaml\n")
		fmt.Fprintf(stderr, "  apidoc -clean                                 # Delete generated documents\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	var diagnostics *utils.DiagnosticSystem
	if *quietFlag {
		diagnostics = utils.NewQuietDiagnostics()
	} else if *verboseFlag {
		diagnostics = utils.NewVerboseDiagnostics()
	} else {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(stdout, stderr)

	reporter := cli.NewDiagnosticReporter(diagnostics.Level() >= utils.DiagnosticVerbose)
	reporter.SetOutput(stderr)

	if *cleanFlag {
		removed, err := cli.NewCleaner().CleanGeneratedFiles(documentation.DefaultDirectory)
		if err != nil {
			reporter.ReportError(err)
			return 1
		}
		for _, file := range removed {
			diagnostics.List("%s", file)
		}
		diagnostics.Success("Removed %d generated documentation files", len(removed))
		return 0
	}

	positional := flags.Args()
	if len(positional) != 1 {
		fmt.Fprintf(stderr, "Error: exactly one registry manifest is required\n\n")
		flags.Usage()
		return 1
	}

	config := defaults
	config.ManifestPath = positional[0]
	config.OutputPath = *outputFlag
	config.Title = *titleFlag
	config.Version = *versionFlag
	config.Description = *descriptionFlag
	config.ServerURL = *serverFlag
	config.ListActions = parseList(*listActionsFlag)
	config.Validate = *validateFlag
	config.Strict = *strictFlag
	config.ServeAddr = *serveFlag
	config.Verbose = *verboseFlag

	format, err := documentation.ParseFormat(*formatFlag)
	if err != nil {
		reporter.ReportError(err)
		return 1
	}
	config.Format = format

	framework, err := server.ParseFramework(*frameworkFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	config.Framework = framework

	diagnostics.Header("Generating OpenAPI documentation")

	generator := cli.NewGenerator(diagnostics, reporter)
	doc, err := generator.Run(ctx, config)
	if err != nil {
		reporter.ReportError(err)
		return 1
	}

	summary := generator.GetSummary()
	if diagnostics.Level() < utils.DiagnosticInfo {
		// quiet runs print only the written path
		fmt.Fprintln(stdout, summary.OutputFile)
	} else {
		diagnostics.Summary("Generation Complete!", summary.Stats())
		diagnostics.Complete("Documentation written to " + summary.OutputFile)
	}

	if config.ServeAddr != "" {
		if err := generator.Serve(ctx, doc, config); err != nil {
			reporter.ReportError(err)
			return 1
		}
	}

	return 0
}

// parseList splits a comma separated flag value, dropping empty entries
func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
