package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/utils"
)

// Module is a resolved Go module
type Module struct {
	Path string // module path used in import statements
	Root string // directory holding go.mod
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a resolver reading go.mod through reader
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{gomod: utils.NewGoModParser(reader)}
}

// Resolve finds the module enclosing dir. A non-empty customModule replaces
// the module path from go.mod; without a go.mod, dir becomes the root.
func (r *ModuleResolver) Resolve(dir, customModule string) (Module, error) {
	goMod, findErr := r.gomod.FindGoModFile(dir)
	if findErr == nil {
		root := filepath.Dir(goMod)
		if customModule != "" {
			return Module{Path: customModule, Root: root}, nil
		}
		path, err := r.gomod.ParseModuleName(goMod)
		if err != nil {
			return Module{}, moduleError(dir, err)
		}
		return Module{Path: path, Root: root}, nil
	}

	if customModule == "" {
		return Module{}, moduleError(dir, findErr)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return Module{}, moduleError(dir, err)
	}
	return Module{Path: customModule, Root: root}, nil
}

// ResolveFromWorkingDirectory resolves the module enclosing the working directory
func (r *ModuleResolver) ResolveFromWorkingDirectory(customModule string) (Module, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Module{}, moduleError(".", err)
	}
	return r.Resolve(wd, customModule)
}

// ImportPath returns the import path of the package in dir
func (m Module) ImportPath(dir string) (string, error) {
	return utils.ImportPath(m.Path, m.Root, dir)
}

func moduleError(dir string, err error) error {
	return &models.GeneratorError{
		Type:    models.ErrorTypeModule,
		Message: fmt.Sprintf("failed to determine module name for %s", dir),
		Cause:   err,
		Suggestions: []string{
			"Check your go.mod file exists and is valid",
			"Ensure you're running from the correct directory",
			"Try specifying -module explicitly",
		},
	}
}
