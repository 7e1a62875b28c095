package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/apidoc/internal/utils"
)

const testManifest = `
apis:
  - name: article
    contentTypes: [article]
    routes:
      article:
        routes:
          - {method: GET, path: /articles, handler: api::article.article.find}
          - {method: GET, path: "/articles/:id", handler: api::article.article.findOne}
          - {method: DELETE, path: "/articles/:id", handler: api::article.article.delete}
contentTypes:
  api::article.article:
    attributes:
      title: {type: string, required: true}
`

const brokenRouteManifest = `
apis:
  - name: article
    contentTypes: [article]
    routes:
      article:
        routes:
          - {method: GET, path: /articles, handler: api::article.article.find}
          - {method: GET, path: "/articles/:id"}
contentTypes:
  api::article.article:
    attributes:
      title: {type: string}
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// newTestGenerator returns a generator whose output and reports are captured
func newTestGenerator(verbose bool) (*Generator, *bytes.Buffer, *bytes.Buffer) {
	var out, reports bytes.Buffer

	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	diagnostics.SetOutput(&out, &out)
	diagnostics.SetColors(false)
	diagnostics.SetShowTime(false)

	reporter := NewDiagnosticReporter(verbose)
	reporter.SetOutput(&reports)

	return NewGenerator(diagnostics, reporter), &out, &reports
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
