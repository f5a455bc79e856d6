package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileReader reads source files and caches their contents and line tables
// until the file changes on disk
type FileReader struct {
	contents *Cache[string, []byte]
	lines    *Cache[string, []string]
}

// NewFileReader creates a FileReader with empty caches
func NewFileReader() *FileReader {
	return &FileReader{
		contents: NewCache[string, []byte](),
		lines:    NewCache[string, []string](),
	}
}

// ReadFile returns the contents of path
func (fr *FileReader) ReadFile(path string) ([]byte, error) {
	clean, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	return fr.contents.Load(clean, clean, func() ([]byte, error) {
		content, err := os.ReadFile(clean)
		if err != nil {
			return nil, WrapReadError(filepath.Base(clean), err)
		}
		return content, nil
	})
}

// Lines returns the lines of path without their terminators
func (fr *FileReader) Lines(path string) ([]string, error) {
	clean, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	return fr.lines.Load(clean, clean, func() ([]string, error) {
		content, err := fr.ReadFile(clean)
		if err != nil {
			return nil, err
		}
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n"), nil
	})
}

// Line returns the 1-based line n of path
func (fr *FileReader) Line(path string, n int) (string, bool) {
	lines, err := fr.Lines(path)
	if err != nil || n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}

// Invalidate forgets everything cached for path
func (fr *FileReader) Invalidate(path string) {
	clean := filepath.Clean(path)
	fr.contents.Delete(clean)
	fr.lines.Delete(clean)
}

// ClearCache forgets every cached file
func (fr *FileReader) ClearCache() {
	fr.contents.Clear()
	fr.lines.Clear()
}

func cleanPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	return filepath.Clean(path), nil
}
