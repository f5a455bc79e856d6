package generator

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"

	"github.com/toyz/extractgen/internal/annotations"
	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/parser"
	"github.com/toyz/extractgen/internal/strategy"
	"github.com/toyz/extractgen/internal/templates"
	"github.com/toyz/extractgen/internal/utils"
)

// DefaultOutputName is the file written into every package with extractors
const DefaultOutputName = "extract_gen.go"

// Generator runs the annotation parser, validator, selector and emitter
type Generator struct {
	annotations *annotations.Parser
	validator   *strategy.Validator
	selector    *strategy.Selector
	emitter     *templates.Emitter
	format      Formatter
	outputName  string
}

// Option configures a Generator
type Option func(*Generator)

// WithOutputName sets the name of the generated file
func WithOutputName(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.outputName = name
		}
	}
}

// WithFormatter replaces the goimports based formatter
func WithFormatter(format Formatter) Option {
	return func(g *Generator) {
		if format != nil {
			g.format = format
		}
	}
}

// NewGenerator creates a new code generator instance
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		annotations: annotations.NewParser(),
		validator:   strategy.NewValidator(),
		selector:    strategy.NewSelector(),
		emitter:     templates.NewEmitter(),
		format:      utils.FormatGoSource,
		outputName:  DefaultOutputName,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OutputName returns the name of the generated file
func (g *Generator) OutputName() string {
	return g.outputName
}

// GenerateDeclaration runs the pipeline for one declaration. Any diagnostic
// means no implementation is returned. A parse failure stops the declaration
// before validation. The error result is reserved for internal failures.
func (g *Generator) GenerateDeclaration(decl *models.ExtractorDeclaration) (*models.GeneratedImplementation, models.Diagnostics, error) {
	config, diags := g.annotations.Parse(decl)
	shape := parser.Inspect(decl)
	if diags.HasErrors() {
		return nil, diags.Sorted(), nil
	}

	validated, diags := g.validator.Validate(decl, config, shape)
	if diags.HasErrors() {
		return nil, diags, nil
	}

	impl, err := g.emitter.Emit(validated, g.selector.Select(validated))
	if err != nil {
		return nil, nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    decl.File,
			Line:    decl.NameSpan.Line,
			Message: fmt.Sprintf("failed to emit %s", decl.Name),
			Cause:   err,
		}
	}
	return impl, nil, nil
}

// GeneratePackage generates the file for a package. Every declaration is
// processed so that all diagnostics are reported together, but when any of
// them fails no file is produced. A package without declarations yields a
// nil file.
func (g *Generator) GeneratePackage(metadata *models.PackageMetadata) (*models.GeneratedFile, models.Diagnostics, error) {
	if metadata == nil {
		return nil, nil, fmt.Errorf("metadata cannot be nil")
	}

	var (
		diags models.Diagnostics
		impls []*models.GeneratedImplementation
	)
	for _, decl := range metadata.Declarations {
		impl, declDiags, err := g.GenerateDeclaration(decl)
		if err != nil {
			return nil, nil, err
		}
		diags.Extend(declDiags)
		if impl != nil {
			impls = append(impls, impl)
		}
	}

	if diags.HasErrors() {
		return nil, diags.Sorted(), nil
	}
	if len(impls) == 0 {
		return nil, nil, nil
	}

	sort.SliceStable(impls, func(i, j int) bool {
		if impls[i].File != impls[j].File {
			return impls[i].File < impls[j].File
		}
		return impls[i].Line < impls[j].Line
	})

	filePath := filepath.Join(metadata.PackagePath, g.outputName)
	manager := g.imports(metadata)
	manager.AddDotImports(dotImports(metadata, impls)...)
	source, err := templates.RenderFile(metadata.PackageName, manager, impls)
	if err != nil {
		return nil, nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    filePath,
			Message: "failed to render generated file",
			Cause:   err,
		}
	}

	content, err := g.format(filePath, []byte(source))
	if err != nil {
		return nil, nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    filePath,
			Message: "generated code could not be formatted",
			Cause:   err,
			Suggestions: []string{
				"Check that every annotation value is a valid Go type expression",
				"Run with -debug to inspect the selected strategies",
			},
			Context: map[string]any{"package": metadata.PackageName},
		}
	}

	return &models.GeneratedFile{
		PackageName:     metadata.PackageName,
		FilePath:        filePath,
		Content:         content,
		Implementations: impls,
	}, nil, nil
}

// imports is the union of the imports of every file that declares an
// extractor, plus what generated code always needs
func (g *Generator) imports(metadata *models.PackageMetadata) *templates.ImportManager {
	manager := templates.NewImportManager()
	manager.AddImport("context")
	manager.AddImport("net/http")
	manager.AddImport(templates.RuntimeImport)
	for _, file := range metadata.Files {
		manager.AddSpecs(file.Imports...)
	}
	return manager
}

// dotImports returns the dot imports of the files whose implementations refer
// to a name that is not declared in the package, predeclared or qualified by
// a package. Such a name can only come from a dot import.
func dotImports(metadata *models.PackageMetadata, impls []*models.GeneratedImplementation) []models.ImportSpec {
	var specs []models.ImportSpec
	seen := make(map[string]bool)
	for _, impl := range impls {
		if seen[impl.File] {
			continue
		}
		file, ok := metadata.File(impl.File)
		if !ok || !hasDotImport(file.Imports) {
			continue
		}
		if !refersToForeignNames(metadata, impl.Source) {
			continue
		}
		seen[impl.File] = true
		specs = append(specs, file.Imports...)
	}
	return specs
}

func hasDotImport(specs []models.ImportSpec) bool {
	for _, spec := range specs {
		if spec.Name == "." {
			return true
		}
	}
	return false
}

func refersToForeignNames(metadata *models.PackageMetadata, source string) bool {
	file, err := goparser.ParseFile(token.NewFileSet(), "", "package p\n\n"+source, 0)
	if err != nil {
		return false
	}

	qualifiers := make(map[*ast.Ident]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				qualifiers[id] = true
			}
		}
		return true
	})

	for _, id := range file.Unresolved {
		if qualifiers[id] || metadata.Declares(id.Name) || types.Universe.Lookup(id.Name) != nil {
			continue
		}
		return true
	}
	return false
}
