package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/utils"
)

// DirectoryScanner resolves directory arguments to package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a scanner that ignores outputName when looking
// for Go source and skips the directory names in exclude
func NewDirectoryScanner(outputName string, exclude ...string) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(outputName, exclude...),
	}
}

// ScanDirectories returns the sorted, de-duplicated absolute directories
// holding Go source. Go-style patterns like "./..." scan recursively.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, utils.WrapProcessError(fmt.Sprintf("path resolution %s", root), err)
		}

		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeFileSystem,
				File:    root,
				Message: "directory does not exist",
				Cause:   err,
				Suggestions: []string{
					"Check that the specified directories exist",
					"Verify the directory paths are correct",
				},
			}
		}

		found, err := s.fileProcessor.PackageDirs(abs, recursive)
		if err != nil {
			return nil, err
		}
		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// splitPattern strips a trailing "/..." and reports whether it was present
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	for _, suffix := range []string{"/...", string(filepath.Separator) + "..."} {
		if strings.HasSuffix(pattern, suffix) {
			root := strings.TrimSuffix(pattern, suffix)
			if root == "" {
				root = "."
			}
			return root, true
		}
	}
	return pattern, false
}
