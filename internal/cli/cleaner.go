package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	documentation "github.com/toyz/apidoc/internal/documentation"
	"github.com/toyz/apidoc/internal/errors"
)

// generatedFiles are the document names written under the documentation directory
var generatedFiles = map[string]bool{
	documentation.FileBaseName + ".json": true,
	documentation.FileBaseName + ".yaml": true,
	documentation.FileBaseName + ".yml":  true,
}

// Cleaner handles cleaning up generated documents
type Cleaner struct{}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanGeneratedFiles removes every generated document below dir, then the
// version directories left empty. A missing dir is not an error.
func (c *Cleaner) CleanGeneratedFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var removed []string
	var dirs []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir {
				dirs = append(dirs, path)
			}
			return nil
		}
		if !generatedFiles[entry.Name()] {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return errors.WrapFileSystemError("remove", path, err)
		}
		removed = append(removed, path)
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.FileSystemErrorCode) {
			return removed, err
		}
		return removed, errors.WrapFileSystemError("walk", dir, err)
	}

	// deepest first so nested empty directories go too
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err == nil && len(entries) == 0 {
			_ = os.Remove(d)
		}
	}

	return removed, nil
}
