// Package templates renders Extract methods and assembles generated files
package templates

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/toyz/extractgen/internal/models"
)

// RuntimeImport is the package generated code calls into
const RuntimeImport = "github.com/toyz/extractgen/pkg/extract"

// DirectData feeds the "direct" template
type DirectData struct {
	TypeName string
	Receiver string
	Newtype  bool
	Fields   []FieldData
	Result   string // value stored into *x once every field succeeded
}

// FieldData is one extraction step of a direct implementation
type FieldData struct {
	Name    string
	Type    string
	Elem    string
	Pointer bool
	Target  string // out.Name, or the local of a newtype
	Declare bool   // Target is a local that must be declared
	ViaVar  string
	ViaType string
	Reject  string
}

// DelegatedData feeds the "delegated" template
type DelegatedData struct {
	TypeName      string
	Receiver      string
	ViaType       string
	ViaElem       string
	ViaPointer    bool
	ViaReject     string
	Convert       string
	ConvertReject string
}

// AssertionData feeds the "assertions" template
type AssertionData struct {
	TypeName     string
	Generic      bool
	ConverterVia string
}

// FileData feeds the "file" template
type FileData struct {
	PackageName     string
	Imports         string
	Implementations []*models.GeneratedImplementation
}

var registry = NewTemplateRegistry()

// RenderFile lays out a generated file. The result is not yet formatted.
func RenderFile(packageName string, imports *ImportManager, impls []*models.GeneratedImplementation) (string, error) {
	data := FileData{
		PackageName:     packageName,
		Imports:         imports.GenerateImports(),
		Implementations: impls,
	}
	return executeTemplate("file", registry.MustGet("file"), data)
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
