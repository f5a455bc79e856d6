package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GoModParser reads go.mod files through a FileReader
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a go.mod parser sharing fileReader's cache
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{fileReader: fileReader}
}

// ParseModuleName returns the module path declared in goModPath
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	clean := filepath.Clean(goModPath)
	if filepath.Base(clean) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(clean)
	if err != nil {
		return "", WrapReadError("go.mod file", err)
	}

	modFile, err := modfile.ParseLax(clean, content, nil)
	if err != nil {
		return "", WrapParseError("go.mod file", err)
	}
	if modFile.Module == nil || modFile.Module.Mod.Path == "" {
		return "", fmt.Errorf("no module declaration found in %s", clean)
	}
	return modFile.Module.Mod.Path, nil
}

// FindGoModFile returns the nearest go.mod at or above startDir
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", WrapProcessError(startDir, err)
	}

	for {
		candidate := filepath.Join(current, "go.mod")
		if content, err := p.fileReader.ReadFile(candidate); err == nil && len(content) > 0 {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("go.mod file not found above %s", startDir)
		}
		current = parent
	}
}

// ImportPath returns the import path of the package in dir given the module
// path and root directory of its module
func ImportPath(modulePath, moduleRoot, dir string) (string, error) {
	absRoot, err := filepath.Abs(moduleRoot)
	if err != nil {
		return "", err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside module root %s", dir, moduleRoot)
	}
	if rel == "." {
		return modulePath, nil
	}
	return path.Join(modulePath, filepath.ToSlash(rel)), nil
}
