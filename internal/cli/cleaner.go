package cli

import (
	"fmt"
	"path/filepath"

	"github.com/toyz/extractgen/internal/utils"
)

// Cleaner removes generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a cleaner for files named outputName
func NewCleaner(outputName string, exclude ...string) *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(outputName, exclude...),
	}
}

// CleanGeneratedFiles removes the generated files under each pattern and
// returns their paths. Files lacking the generated header are never removed.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	var removed []string
	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)
		files, err := c.fileProcessor.CleanDirectories(filepath.Clean(root), recursive)
		removed = append(removed, files...)
		if err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", root, err)
		}
	}
	return removed, nil
}
