package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GeneratedHeader starts every file the generator writes
const GeneratedHeader = "// Code generated by extractgen. DO NOT EDIT."

// FileFilter reports whether a file should be processed
type FileFilter func(path string, entry fs.DirEntry) bool

// DirectoryFilter reports whether a directory should be descended into
type DirectoryFilter func(path string, entry fs.DirEntry) bool

// FileProcessor locates package directories and generated files
type FileProcessor struct {
	outputName string
	fileFilter FileFilter
	dirFilter  DirectoryFilter
}

// NewFileProcessor creates a processor that treats outputName as the generated
// file and skips the directory names in exclude along with the usual ones
func NewFileProcessor(outputName string, exclude ...string) *FileProcessor {
	return &FileProcessor{
		outputName: outputName,
		fileFilter: GoSourceFilter(outputName),
		dirFilter:  DefaultDirectoryFilter(exclude...),
	}
}

// GoSourceFilter accepts non-test .go files other than the generated output
func GoSourceFilter(outputName string) FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		if entry.IsDir() {
			return false
		}
		name := entry.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			name != outputName
	}
}

// DefaultDirectoryFilter skips hidden directories, vendored code, testdata and
// any name listed in exclude
func DefaultDirectoryFilter(exclude ...string) DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}
	for _, name := range exclude {
		skipDirs[name] = true
	}

	return func(path string, entry fs.DirEntry) bool {
		if !entry.IsDir() {
			return true
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		if strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// PackageDirs returns root, or with recursive every directory below root, that
// holds Go source. The result is sorted.
func (fp *FileProcessor) PackageDirs(root string, recursive bool) ([]string, error) {
	if !recursive {
		ok, err := fp.HasGoFiles(root)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("directory %s", root), err)
		}
		if !ok {
			return nil, nil
		}
		return []string{filepath.Clean(root)}, nil
	}

	var dirs []string
	err := fp.walkDirs(root, func(dir string) error {
		ok, err := fp.HasGoFiles(dir)
		if err != nil {
			return err
		}
		if ok {
			dirs = append(dirs, dir)
		}
		return nil
	})
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory %s", root), err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// HasGoFiles reports whether dir contains Go source other than tests and
// the generated output
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if fp.fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}
	return false, nil
}

// GeneratedFiles returns the generated output files under root that carry
// the generated header. Hand-written files sharing the name are left out.
func (fp *FileProcessor) GeneratedFiles(root string, recursive bool) ([]string, error) {
	var found []string
	visit := func(dir string) error {
		candidate := filepath.Join(dir, fp.outputName)
		generated, err := IsGeneratedFile(candidate)
		if err != nil {
			return err
		}
		if generated {
			found = append(found, candidate)
		}
		return nil
	}

	var err error
	if recursive {
		err = fp.walkDirs(root, visit)
	} else {
		err = visit(filepath.Clean(root))
	}
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory %s", root), err)
	}
	sort.Strings(found)
	return found, nil
}

// CleanDirectories removes the generated files under root and returns the
// removed paths
func (fp *FileProcessor) CleanDirectories(root string, recursive bool) ([]string, error) {
	files, err := fp.GeneratedFiles(root, recursive)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(files))
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return removed, WrapProcessError(fmt.Sprintf("file removal %s", file), err)
		}
		removed = append(removed, file)
	}
	return removed, nil
}

// OutputName returns the generated file name this processor looks for
func (fp *FileProcessor) OutputName() string {
	return fp.outputName
}

func (fp *FileProcessor) walkDirs(root string, visit func(dir string) error) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && !fp.dirFilter(path, entry) {
			return filepath.SkipDir
		}
		return visit(path)
	})
}

// IsGeneratedFile reports whether path exists and starts with the generated
// header
func IsGeneratedFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return false, nil
	}
	return bytes.HasPrefix(line, []byte(GeneratedHeader)), nil
}
