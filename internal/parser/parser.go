package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/extractgen/internal/annotations"
	"github.com/toyz/extractgen/internal/models"
)

// Parser finds annotated type declarations in Go source
type Parser struct {
	fileSet   *token.FileSet
	skipFiles map[string]bool
}

// NewParser creates a new parser with its own file set
func NewParser() *Parser {
	return &Parser{
		fileSet:   token.NewFileSet(),
		skipFiles: make(map[string]bool),
	}
}

// SkipFile excludes a file name, such as the generated output, from scanning
func (p *Parser) SkipFile(name string) {
	p.skipFiles[name] = true
}

// FileSet returns the file set positions are resolved against
func (p *Parser) FileSet() *token.FileSet {
	return p.fileSet
}

// ParseSource parses a single file held in memory
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: filepath.Dir(filename),
		Names:       make(map[string]bool),
	}
	collectNames(metadata, file)
	p.collect(metadata, filename, file)
	return metadata, nil
}

// ParseDirectory parses every non-test Go file of the package in path
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || p.skipFiles[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	metadata := &models.PackageMetadata{PackagePath: path, Names: make(map[string]bool)}
	for _, name := range names {
		filename := filepath.Join(path, name)
		file, err := parser.ParseFile(p.fileSet, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
		}
		collectNames(metadata, file)
		if ast.IsGenerated(file) {
			continue
		}

		if metadata.PackageName == "" {
			metadata.PackageName = file.Name.Name
		} else if metadata.PackageName != file.Name.Name {
			return nil, fmt.Errorf("multiple packages found in directory %s: %s and %s",
				path, metadata.PackageName, file.Name.Name)
		}
		p.collect(metadata, filename, file)
	}

	if metadata.PackageName == "" {
		return nil, fmt.Errorf("no Go packages found in directory %s", path)
	}
	return metadata, nil
}

func (p *Parser) collect(metadata *models.PackageMetadata, filename string, file *ast.File) {
	decls := p.ExtractDeclarations(file)
	if len(decls) == 0 {
		return
	}

	for _, decl := range decls {
		decl.Package = metadata.PackageName
	}
	metadata.Declarations = append(metadata.Declarations, decls...)
	metadata.Files = append(metadata.Files, models.FileMetadata{
		Path:    filename,
		Imports: fileImports(file),
	})
}

// collectNames records the package-level identifiers declared by file
func collectNames(metadata *models.PackageMetadata, file *ast.File) {
	for _, node := range file.Decls {
		switch decl := node.(type) {
		case *ast.FuncDecl:
			if decl.Recv == nil {
				metadata.Names[decl.Name.Name] = true
			}
		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					metadata.Names[spec.Name.Name] = true
				case *ast.ValueSpec:
					for _, name := range spec.Names {
						metadata.Names[name.Name] = true
					}
				}
			}
		}
	}
}

// ExtractDeclarations returns every type declaration in file that carries at
// least one //extract:: comment, in source order
func (p *Parser) ExtractDeclarations(file *ast.File) []*models.ExtractorDeclaration {
	var decls []*models.ExtractorDeclaration

	for _, node := range file.Decls {
		gen, ok := node.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil && !gen.Lparen.IsValid() {
				doc = gen.Doc
			}

			raws := p.annotationLines(doc)
			if len(raws) == 0 {
				continue
			}
			decls = append(decls, p.buildDeclaration(typeSpec, raws))
		}
	}

	return decls
}

func (p *Parser) buildDeclaration(spec *ast.TypeSpec, raws []models.RawAnnotation) *models.ExtractorDeclaration {
	decl := &models.ExtractorDeclaration{
		Name:        spec.Name.Name,
		File:        p.fileSet.Position(spec.Pos()).Filename,
		NameSpan:    p.span(spec.Name),
		DeclSpan:    p.span(spec),
		Annotations: raws,
		Visibility:  models.VisibilityUnexported,
	}
	if ast.IsExported(spec.Name.Name) {
		decl.Visibility = models.VisibilityExported
	}

	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			constraint := types.ExprString(field.Type)
			for _, name := range field.Names {
				decl.TypeParams = append(decl.TypeParams, models.TypeParam{
					Name:       name.Name,
					Constraint: constraint,
					Span:       p.span(name),
				})
			}
		}
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		decl.Kind = models.DeclStruct
		decl.Fields = p.structFields(t)
	case *ast.InterfaceType:
		decl.Kind = models.DeclInterface
	default:
		decl.Kind = models.DeclDefined
		decl.Fields = []models.Field{{
			Index: 0,
			Type:  types.ExprString(spec.Type),
			Span:  p.span(spec.Type),
		}}
	}

	if spec.Assign.IsValid() {
		decl.Kind = models.DeclAlias
		decl.Fields = nil
	}

	return decl
}

func (p *Parser) structFields(st *ast.StructType) []models.Field {
	var fields []models.Field
	if st.Fields == nil {
		return fields
	}

	for _, f := range st.Fields.List {
		typeString := types.ExprString(f.Type)
		raws := append(p.annotationLines(f.Doc), p.annotationLines(f.Comment)...)

		if len(f.Names) == 0 {
			fields = append(fields, models.Field{
				Index:       len(fields),
				Name:        embeddedName(f.Type),
				Type:        typeString,
				Embedded:    true,
				Span:        p.span(f.Type),
				Annotations: raws,
			})
			continue
		}

		for _, name := range f.Names {
			fields = append(fields, models.Field{
				Index:       len(fields),
				Name:        name.Name,
				Type:        typeString,
				Span:        p.span(name),
				Annotations: raws,
			})
		}
	}
	return fields
}

func (p *Parser) annotationLines(group *ast.CommentGroup) []models.RawAnnotation {
	if group == nil {
		return nil
	}

	var raws []models.RawAnnotation
	for _, comment := range group.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		raws = append(raws, models.RawAnnotation{
			Text: comment.Text,
			Pos:  p.fileSet.Position(comment.Slash),
		})
	}
	return raws
}

func (p *Parser) span(node ast.Node) models.Span {
	return models.SpanFromPositions(p.fileSet.Position(node.Pos()), p.fileSet.Position(node.End()))
}

// embeddedName is the implicit field name of an embedded type
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.Ident:
		return t.Name
	default:
		return types.ExprString(expr)
	}
}

func fileImports(file *ast.File) []models.ImportSpec {
	imports := make([]models.ImportSpec, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := models.ImportSpec{Path: path}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}
