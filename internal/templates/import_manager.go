package templates

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/toyz/extractgen/internal/models"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	imports map[models.ImportSpec]bool
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		imports: make(map[models.ImportSpec]bool),
	}
}

// AddImport adds an import under its default name
func (im *ImportManager) AddImport(importPath string) {
	if importPath != "" {
		im.imports[models.ImportSpec{Path: importPath}] = true
	}
}

// AddNamedImport adds an import with an explicit name. A name equal to the
// last path element is dropped so the same package is not imported twice.
func (im *ImportManager) AddNamedImport(name, importPath string) {
	if importPath == "" {
		return
	}
	if name == path.Base(importPath) {
		name = ""
	}
	im.imports[models.ImportSpec{Name: name, Path: importPath}] = true
}

// AddSpecs adds the named imports of a source file. Blank and dot imports
// are skipped: goimports never prunes them, so they are only added through
// AddDotImports when generated code needs them.
func (im *ImportManager) AddSpecs(specs ...models.ImportSpec) {
	for _, spec := range specs {
		if spec.Name == "_" || spec.Name == "." {
			continue
		}
		im.AddNamedImport(spec.Name, spec.Path)
	}
}

// AddDotImports adds the dot imports among specs
func (im *ImportManager) AddDotImports(specs ...models.ImportSpec) {
	for _, spec := range specs {
		if spec.Name == "." && spec.Path != "" {
			im.imports[spec] = true
		}
	}
}

// Specs returns the imports with the standard library first, each group
// sorted by path
func (im *ImportManager) Specs() []models.ImportSpec {
	specs := make([]models.ImportSpec, 0, len(im.imports))
	for spec := range im.imports {
		specs = append(specs, spec)
	}

	sort.Slice(specs, func(i, j int) bool {
		si, sj := isStandard(specs[i].Path), isStandard(specs[j].Path)
		if si != sj {
			return si
		}
		if specs[i].Path != specs[j].Path {
			return specs[i].Path < specs[j].Path
		}
		return specs[i].Name < specs[j].Name
	})
	return specs
}

// GenerateImports generates the import section
func (im *ImportManager) GenerateImports() string {
	specs := im.Specs()
	if len(specs) == 0 {
		return ""
	}

	if len(specs) == 1 {
		return fmt.Sprintf("import %s\n", formatSpec(specs[0]))
	}

	var result strings.Builder
	result.WriteString("import (\n")
	standard := true
	for _, spec := range specs {
		if standard && !isStandard(spec.Path) {
			standard = false
			if result.Len() > len("import (\n") {
				result.WriteString("\n")
			}
		}
		result.WriteString(fmt.Sprintf("\t%s\n", formatSpec(spec)))
	}
	result.WriteString(")\n")

	return result.String()
}

func formatSpec(spec models.ImportSpec) string {
	if spec.Name == "" {
		return fmt.Sprintf("%q", spec.Path)
	}
	return fmt.Sprintf("%s %q", spec.Name, spec.Path)
}

// isStandard reports whether the path looks like a standard library package
func isStandard(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
