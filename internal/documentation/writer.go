package docgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/toyz/apidoc/internal/errors"
	"github.com/toyz/apidoc/internal/openapi"
)

// Format is an output encoding of the document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultDirectory holds the generated documents, one subdirectory per version
const DefaultDirectory = "documentation"

// FileBaseName is the name of a generated document without its extension
const FileBaseName = "full_documentation"

// ParseFormat accepts json, yaml and yml
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.WrapConfigurationError("format", fmt.Errorf("unsupported format '%s' (expected json or yaml)", s))
	}
}

// FormatFromPath infers the format from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ContentType returns the HTTP media type of the format
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return openapi.ContentTypeJSON
}

// DefaultOutputPath returns documentation/<version>/full_documentation.<ext>
func DefaultOutputPath(version string, format Format) string {
	return filepath.Join(DefaultDirectory, strings.TrimPrefix(version, "v"), FileBaseName+"."+string(format))
}

// Encode serializes the document; JSON is indented and YAML uses two spaces
func Encode(doc *openapi3.T, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.WrapConfigurationError("format", fmt.Errorf("unsupported format '%s'", format))
	}
}

// Write encodes the document and writes it to path, creating parent directories
func Write(doc *openapi3.T, path string, format Format) error {
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapFileSystemError("create directory for", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}
