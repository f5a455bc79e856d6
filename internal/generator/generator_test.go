package generator

import (
	"errors"
	goparser "go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/parser"
)

func parsePackage(t *testing.T, filename, source string) *models.PackageMetadata {
	t.Helper()
	metadata, err := parser.NewParser().ParseSource(filename, source)
	require.NoError(t, err)
	return metadata
}

func declaration(t *testing.T, source string) *models.ExtractorDeclaration {
	t.Helper()
	metadata := parsePackage(t, "handlers.go", source)
	require.Len(t, metadata.Declarations, 1)
	return metadata.Declarations[0]
}

// identity skips goimports so tests only look at the emitted text
func identity(_ string, source []byte) ([]byte, error) {
	return source, nil
}

func TestScenarioGenericsRequireVia(t *testing.T) {
	decl := declaration(t, `package handlers

//extract::derive
type Extractor[T any] struct {
	Value T
}
`)

	impl, diags, err := NewGenerator().GenerateDeclaration(decl)
	require.NoError(t, err)
	assert.Nil(t, impl, "no code is emitted on failure")
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, models.KindValidation, d.Kind)
	assert.Equal(t, models.CodeGenericsRequireVia, d.Code)
	assert.Equal(t, "generics require a delegation target", d.Message)
	assert.Equal(t, 4, d.Primary.Line)
	assert.Equal(t, 16, d.Primary.Column, "span is the type parameter T")
	assert.Equal(t, decl.TypeParams[0].Span, d.Primary)
}

func TestScenarioGenericsWithVia(t *testing.T) {
	decl := declaration(t, `package handlers

//extract::derive -Via=extract.Json[T]
type Extractor[T any] struct {
	Value T
}
`)

	impl, diags, err := NewGenerator().GenerateDeclaration(decl)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NotNil(t, impl)

	delegated, ok := impl.Strategy.(*models.DelegatedStrategy)
	require.True(t, ok, "got %T", impl.Strategy)
	assert.Equal(t, "extract.Json[T]", delegated.Via.String())

	via := strings.Index(impl.Source, "extract.Into(ctx, r, state, &via)")
	convert := strings.Index(impl.Source, "out.FromVia(via)")
	require.True(t, via >= 0 && convert >= 0, impl.Source)
	assert.Less(t, via, convert, "the via type is extracted before converting")
}

func TestScenarioDirectPair(t *testing.T) {
	decl := declaration(t, `package handlers

//extract::derive
type Pair struct {
	A A
	B B
}
`)

	impl, diags, err := NewGenerator().GenerateDeclaration(decl)
	require.NoError(t, err)
	require.Empty(t, diags)

	direct, ok := impl.Strategy.(*models.DirectStrategy)
	require.True(t, ok, "got %T", impl.Strategy)
	require.Len(t, direct.Plan, 2)
	assert.Equal(t, "A", direct.Plan[0].Field.Name)
	assert.Equal(t, "B", direct.Plan[1].Field.Name)

	a := strings.Index(impl.Source, "&out.A")
	returnA := strings.Index(impl.Source, `extract.FieldRejection("Pair", "A", err)`)
	b := strings.Index(impl.Source, "&out.B")
	require.True(t, a >= 0 && returnA >= 0 && b >= 0, impl.Source)
	assert.Less(t, a, returnA)
	assert.Less(t, returnA, b, "A returns its rejection before B is extracted")
}

func TestScenarioViaAndFieldOverride(t *testing.T) {
	decl := declaration(t, `package handlers

//extract::derive -Via=extract.Json[Pair]
type Pair struct {
	//extract::field -Via=extract.Query
	A A
	B B
}
`)

	impl, diags, err := NewGenerator().GenerateDeclaration(decl)
	require.NoError(t, err)
	assert.Nil(t, impl)
	require.Len(t, diags, 1)
	assert.Equal(t, models.CodeConflictingDelegation, diags[0].Code)
	assert.Equal(t, "delegation target and per-field overrides are mutually exclusive", diags[0].Message)
	require.Len(t, diags[0].Labels, 1)
	assert.Equal(t, 5, diags[0].Labels[0].Span.Line)
}

func TestParseErrorStopsBeforeValidation(t *testing.T) {
	decl := declaration(t, `package handlers

//extract::derive -Vai=extract.Json[T]
type Extractor[T any] struct {
	Value T
}
`)

	impl, diags, err := NewGenerator().GenerateDeclaration(decl)
	require.NoError(t, err)
	assert.Nil(t, impl)
	require.Len(t, diags, 1)
	assert.Equal(t, models.KindParse, diags[0].Kind)
	assert.Equal(t, models.CodeUnknownKey, diags[0].Code)
}

const mixedPackage = `package handlers

//extract::derive
type Broken[T any] struct {
	Value T
}

//extract::derive
type Pair struct {
	A A
	B B
}

//extract::derive -Via=extract.Json[Empty] -Convert=toEmpty
type Empty struct{}

//extract::derive
type Nothing struct{}
`

func TestGeneratePackageReportsEveryDiagnostic(t *testing.T) {
	metadata := parsePackage(t, "handlers.go", mixedPackage)
	require.Len(t, metadata.Declarations, 4)

	file, diags, err := NewGenerator(WithFormatter(identity)).GeneratePackage(metadata)
	require.NoError(t, err)
	assert.Nil(t, file, "a package with a failing declaration gets no file")

	require.Len(t, diags, 2)
	assert.Equal(t, models.CodeGenericsRequireVia, diags[0].Code)
	assert.Equal(t, models.CodeZeroFieldsNoVia, diags[1].Code)
	assert.Less(t, diags[0].Primary.Line, diags[1].Primary.Line)

	var diagErr *models.DiagnosticError
	require.True(t, errors.As(diags.Err(), &diagErr))
	assert.Len(t, diagErr.Diagnostics, 2)
}

func TestGeneratePackageRendersFile(t *testing.T) {
	dir := t.TempDir()
	metadata := parsePackage(t, filepath.Join(dir, "handlers.go"), `package handlers

import (
	"fmt"

	"example.com/app/forms"
)

//extract::derive -Via=*forms.Login
type Login struct {
	User string
}

//extract::derive
type Pair struct {
	A A
	B *B
}

func describe(p Pair) string { return fmt.Sprint(p) }
`)

	file, diags, err := NewGenerator().GeneratePackage(metadata)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NotNil(t, file)

	assert.Equal(t, filepath.Join(dir, DefaultOutputName), file.FilePath)
	assert.Equal(t, "handlers", file.PackageName)
	require.Len(t, file.Implementations, 2)
	assert.Equal(t, "Login", file.Implementations[0].TypeName)
	assert.Equal(t, "Pair", file.Implementations[1].TypeName)

	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "// Code generated by extractgen. DO NOT EDIT.\n"), content)
	assert.Contains(t, content, "package handlers\n")
	assert.Contains(t, content, `"github.com/toyz/extractgen/pkg/extract"`)
	assert.Contains(t, content, `"example.com/app/forms"`)
	assert.NotContains(t, content, `"fmt"`, "imports the generated code does not use are pruned")

	_, err = goparser.ParseFile(token.NewFileSet(), file.FilePath, file.Content, goparser.ParseComments)
	require.NoError(t, err, content)

	login := strings.Index(content, "func (x *Login) Extract")
	pair := strings.Index(content, "func (x *Pair) Extract")
	assert.Less(t, login, pair, "implementations follow source order")
}

func TestGeneratePackageDotImports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{
			name: "pointer field from dot import",
			source: `package handlers

import . "example.com/app/types"

//extract::derive
type Dot struct {
	T *Token
}
`,
			want: true,
		},
		{
			name: "newtype of a dot imported type",
			source: `package handlers

import . "example.com/app/types"

//extract::derive
type Session Token
`,
			want: true,
		},
		{
			name: "only package types",
			source: `package handlers

import . "example.com/app/types"

type Local struct{}

//extract::derive
type Uses struct {
	L *Local
	N extract.RequestID
}
`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := parsePackage(t, filepath.Join(t.TempDir(), "handlers.go"), tt.source)

			file, diags, err := NewGenerator(WithFormatter(identity)).GeneratePackage(metadata)
			require.NoError(t, err)
			require.Empty(t, diags)
			require.NotNil(t, file)

			content := string(file.Content)
			if got := strings.Contains(content, `. "example.com/app/types"`); got != tt.want {
				t.Errorf("dot import copied = %v, want %v:\n%s", got, tt.want, content)
			}
		})
	}
}

func TestGeneratePackageIsDeterministic(t *testing.T) {
	source := `package handlers

//extract::derive -Via=extract.Json[T]
type Extractor[T any] struct {
	Value T
}

//extract::derive
type Pair struct {
	A A
	B B
}
`
	gen := NewGenerator(WithFormatter(identity), WithOutputName("zz_extract.go"))

	first, _, err := gen.GeneratePackage(parsePackage(t, "handlers.go", source))
	require.NoError(t, err)
	second, _, err := gen.GeneratePackage(parsePackage(t, "handlers.go", source))
	require.NoError(t, err)

	assert.Equal(t, string(first.Content), string(second.Content))
	assert.Equal(t, "zz_extract.go", filepath.Base(first.FilePath))
}

func TestGeneratePackageWithoutDeclarations(t *testing.T) {
	metadata := parsePackage(t, "plain.go", "package plain\n\ntype Plain struct{}\n")

	file, diags, err := NewGenerator().GeneratePackage(metadata)
	require.NoError(t, err)
	assert.Nil(t, file)
	assert.Empty(t, diags)

	_, _, err = NewGenerator().GeneratePackage(nil)
	assert.Error(t, err)
}

func TestFormatterFailureIsGeneratorError(t *testing.T) {
	metadata := parsePackage(t, "handlers.go", `package handlers

//extract::derive
type Pair struct {
	A A
}
`)
	failing := func(string, []byte) ([]byte, error) { return nil, errors.New("boom") }

	_, _, err := NewGenerator(WithFormatter(failing)).GeneratePackage(metadata)
	var genErr *models.GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, models.ErrorTypeGeneration, genErr.Type)
	assert.NotEmpty(t, genErr.Suggestions)
}
