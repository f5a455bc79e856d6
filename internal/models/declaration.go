package models

import (
	"go/token"
	"strings"
)

// Visibility of a declared type
type Visibility int

const (
	VisibilityUnexported Visibility = iota
	VisibilityExported
)

func (v Visibility) String() string {
	if v == VisibilityExported {
		return "exported"
	}
	return "unexported"
}

// DeclKind is the syntactic form of a type declaration
type DeclKind int

const (
	DeclStruct DeclKind = iota
	DeclDefined
	DeclAlias
	DeclInterface
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclDefined:
		return "defined type"
	case DeclAlias:
		return "alias"
	case DeclInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// RawAnnotation is one //extract:: comment line as it appears in source
type RawAnnotation struct {
	Text string
	Pos  token.Position // position of the leading "//"
}

// TypeParam is a single generic parameter of a declaration
type TypeParam struct {
	Name       string
	Constraint string
	Span       Span
}

// Field is one field of a declaration, in declaration order. A defined
// non-struct type carries a single unnamed field holding its underlying type.
type Field struct {
	Index       int
	Name        string
	Type        string
	Embedded    bool
	Span        Span
	Annotations []RawAnnotation
}

// IsPointer reports whether the field is declared as a pointer
func (f Field) IsPointer() bool {
	return strings.HasPrefix(f.Type, "*")
}

// ElemType returns the field type without a leading pointer
func (f Field) ElemType() string {
	return strings.TrimPrefix(f.Type, "*")
}

// DisplayName is the name used in messages and rejections
func (f Field) DisplayName() string {
	if f.Name == "" {
		return f.Type
	}
	return f.Name
}

// ExtractorDeclaration is an annotated type declaration found in source
type ExtractorDeclaration struct {
	Name        string
	Package     string
	File        string
	Kind        DeclKind
	Visibility  Visibility
	TypeParams  []TypeParam
	Fields      []Field
	NameSpan    Span
	DeclSpan    Span
	Annotations []RawAnnotation
}

// IsGeneric reports whether the declaration has type parameters
func (d *ExtractorDeclaration) IsGeneric() bool {
	return len(d.TypeParams) > 0
}

// TypeParamNames returns the parameter names in declaration order
func (d *ExtractorDeclaration) TypeParamNames() []string {
	names := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		names[i] = p.Name
	}
	return names
}

// Receiver renders the receiver type, for example "Extractor[T]"
func (d *ExtractorDeclaration) Receiver() string {
	if !d.IsGeneric() {
		return d.Name
	}
	return d.Name + "[" + strings.Join(d.TypeParamNames(), ", ") + "]"
}

// ImportSpec is a single import of a source file
type ImportSpec struct {
	Name string // explicit name, empty when the default is used
	Path string
}

// FileMetadata describes a source file that declares extractors
type FileMetadata struct {
	Path    string
	Imports []ImportSpec
}

// PackageMetadata is everything the scanner found in one package directory
type PackageMetadata struct {
	PackageName  string
	PackagePath  string // directory on disk
	ImportPath   string // resolved import path, empty when unknown
	Files        []FileMetadata
	Declarations []*ExtractorDeclaration

	// Names holds every package-level identifier declared in the package,
	// generated files included
	Names map[string]bool
}

// Declares reports whether name is declared at package level
func (m *PackageMetadata) Declares(name string) bool {
	return m.Names[name]
}

// File returns the metadata of the file at path
func (m *PackageMetadata) File(path string) (FileMetadata, bool) {
	for _, f := range m.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileMetadata{}, false
}
