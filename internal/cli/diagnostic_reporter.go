package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/apidoc/internal/builder"
	"github.com/toyz/apidoc/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
	}
}

// SetOutput redirects the reporter
func (r *DiagnosticReporter) SetOutput(out io.Writer) {
	r.out = out
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportDiagnostics prints every builder diagnostic; skipped entries are
// shown in red, with suggestions in verbose mode
func (r *DiagnosticReporter) ReportDiagnostics(diagnostics []builder.Diagnostic) {
	red := color.New(color.FgRed, color.Bold)

	for _, d := range diagnostics {
		if d.Severity == builder.SeverityWarning {
			r.ReportWarning(d.String())
			continue
		}

		red.Fprint(r.out, "x ")
		fmt.Fprintf(r.out, "%s\n", d.String())

		var docErr errors.DocError
		if r.verbose && stderrors.As(d.Err, &docErr) {
			for _, suggestion := range docErr.Suggestions() {
				fmt.Fprintf(r.out, "    hint: %s\n", suggestion)
			}
		}
	}
}

// ReportError provides comprehensive error reporting for a failed run
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Documentation Generation Failed\n")
	fmt.Fprintf(r.out, "======================================\n\n")

	var multi *errors.MultipleErrors
	var docErr errors.DocError
	switch {
	case stderrors.As(err, &multi) && len(multi.Errors) > 1:
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "[%d/%d]\n", i+1, len(multi.Errors))
			r.reportDocError(e)
		}
	case stderrors.As(err, &docErr):
		r.reportDocError(docErr)
	default:
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
	}

	fmt.Fprintf(r.out, "For more help:\n")
	fmt.Fprintf(r.out, "  - Run with -verbose for more detailed output\n")
	fmt.Fprintf(r.out, "  - Run with -validate to check the generated document\n\n")
}

func (r *DiagnosticReporter) reportDocError(docErr errors.DocError) {
	typeName := docErr.ErrorCode().String()
	fmt.Fprintf(r.out, "Type: %s\n", typeName)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(typeName)+6))

	fmt.Fprintf(r.out, "Message: %s\n\n", docErr.Error())

	if loc := docErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc)
	}

	if context := docErr.Context(); len(context) > 0 {
		r.printContext(context)
	}

	if suggestions := docErr.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose && docErr.Unwrap() != nil {
		r.printErrorChain(docErr.Unwrap())
	}
}

// printContext prints context information sorted by key
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "   %d. %s\n", level, err.Error())
		err = stderrors.Unwrap(err)
	}
	fmt.Fprintf(r.out, "\n")
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.out, "[DEBUG] "+format+"\n", args...)
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	APIs       int
	Paths      int
	Operations int
	Schemas    int
	Warnings   int
	Errors     int
	OutputFile string
}

// Stats returns the summary as DiagnosticSystem.Summary statistics
func (s GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"APIs documented":    s.APIs,
		"Paths":              s.Paths,
		"Operations":         s.Operations,
		"Schemas":            s.Schemas,
		"Warnings":           s.Warnings,
		"Skipped entries":    s.Errors,
		"Documentation file": s.OutputFile,
	}
}
