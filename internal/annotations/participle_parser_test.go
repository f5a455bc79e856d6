package annotations

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/extractgen/internal/models"
)

func rawAt(text string, line, column int) models.RawAnnotation {
	return models.RawAnnotation{
		Text: text,
		Pos:  token.Position{Filename: "handlers.go", Line: line, Column: column, Offset: 40},
	}
}

func TestParticipleParserBasic(t *testing.T) {
	parser := NewParticipleParser()

	tests := []struct {
		name     string
		input    string
		kind     AnnotationType
		options  map[string]string
		hasValue map[string]bool
	}{
		{
			name:    "bare derive",
			input:   "//extract::derive",
			kind:    DeriveAnnotation,
			options: map[string]string{},
		},
		{
			name:    "derive with generic via",
			input:   "//extract::derive -Via=extract.Json[T]",
			kind:    DeriveAnnotation,
			options: map[string]string{"Via": "extract.Json[T]"},
		},
		{
			name:    "pointer via",
			input:   "//extract::derive -Via=*forms.Login",
			kind:    DeriveAnnotation,
			options: map[string]string{"Via": "*forms.Login"},
		},
		{
			name:    "rejection and convert",
			input:   "//extract::derive -Rejection=ApiError -Convert=FromPayload",
			kind:    DeriveAnnotation,
			options: map[string]string{"Rejection": "ApiError", "Convert": "FromPayload"},
		},
		{
			name:    "nested type arguments",
			input:   "//extract::derive -Via=Pair[K, extract.Query[V]]",
			kind:    DeriveAnnotation,
			options: map[string]string{"Via": "Pair[K, extract.Query[V]]"},
		},
		{
			name:    "field shorthand",
			input:   "//extract::field -Via=extract.Json",
			kind:    FieldAnnotation,
			options: map[string]string{"Via": "extract.Json"},
		},
		{
			name:    "space after slashes",
			input:   "// extract::derive -Via=Token",
			kind:    DeriveAnnotation,
			options: map[string]string{"Via": "Token"},
		},
		{
			name:     "flag without value",
			input:    "//extract::derive -Via",
			kind:     DeriveAnnotation,
			options:  map[string]string{"Via": ""},
			hasValue: map[string]bool{"Via": false},
		},
		{
			name:     "empty value",
			input:    "//extract::derive -Via=",
			kind:     DeriveAnnotation,
			options:  map[string]string{"Via": ""},
			hasValue: map[string]bool{"Via": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, diag := parser.ParseAnnotation(rawAt(tt.input, 3, 1))
			require.Nil(t, diag)
			require.NotNil(t, parsed)

			assert.Equal(t, tt.kind, parsed.Type)
			assert.Equal(t, tt.input, parsed.Raw)
			require.Len(t, parsed.Options, len(tt.options))

			for key, want := range tt.options {
				opt, ok := parsed.Option(key)
				require.True(t, ok, "option %s", key)
				assert.Equal(t, want, opt.Value.String())
				if expected, ok := tt.hasValue[key]; ok {
					assert.Equal(t, expected, opt.HasValue)
				}
			}
		})
	}
}

func TestParticipleParserSpans(t *testing.T) {
	parser := NewParticipleParser()

	// column 1 of the comment is column 1 of the file
	parsed, diag := parser.ParseAnnotation(rawAt("//extract::derive -Via=extract.Json[T]", 7, 1))
	require.Nil(t, diag)

	opt, ok := parsed.Option("Via")
	require.True(t, ok)
	assert.Equal(t, "handlers.go", opt.KeySpan.File)
	assert.Equal(t, 7, opt.KeySpan.Line)
	assert.Equal(t, 20, opt.KeySpan.Column)
	assert.Equal(t, 19, opt.Span.Column)
	assert.Equal(t, 24, opt.Value.Span.Column)
	assert.Equal(t, "T", opt.Value.Args[0].Name)
	assert.Equal(t, 37, opt.Value.Args[0].Span.Column)
	assert.Equal(t, 12, parsed.TypeSpan.Column)

	// an indented field comment shifts every column
	parsed, diag = parser.ParseAnnotation(rawAt("//extract::field -Via=extract.Json", 12, 17))
	require.Nil(t, diag)
	opt, _ = parsed.Option("Via")
	assert.Equal(t, 12, opt.Span.Line)
	assert.Equal(t, 17+17, opt.Span.Column)
}

func TestParticipleParserSyntaxErrors(t *testing.T) {
	parser := NewParticipleParser()

	tests := []struct {
		name   string
		input  string
		code   models.Code
		column int // 0 skips the column check
	}{
		{"stray word", "//extract::derive Foo", models.CodeSyntax, 19},
		{"stray bracket", "//extract::derive -Via=[", models.CodeSyntax, 24},
		{"unterminated arguments", "//extract::derive -Via=extract.Json[", models.CodeSyntax, 0},
		{"invalid character", "//extract::derive -Via={}", models.CodeSyntax, 0},
		{"missing kind", "//extract::", models.CodeSyntax, 0},
		{"unknown kind", "//extract::deriv", models.CodeUnknownAnnotation, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, diag := parser.ParseAnnotation(rawAt(tt.input, 5, 1))
			assert.Nil(t, parsed)
			require.NotNil(t, diag)

			assert.Equal(t, models.KindParse, diag.Kind)
			assert.Equal(t, tt.code, diag.Code)
			assert.Equal(t, 5, diag.Primary.Line)
			assert.Equal(t, "handlers.go", diag.Primary.File)
			if tt.column > 0 {
				assert.Equal(t, tt.column, diag.Primary.Column)
			}
		})
	}
}

func TestIsAnnotation(t *testing.T) {
	tests := []struct {
		comment string
		want    bool
	}{
		{"//extract::derive", true},
		{"// extract::field -Via=X", true},
		{"// Payload is extracted from JSON", false},
		{"//go:generate extractgen .", false},
		{"/* extract::derive */", false},
		{"//extractor::derive", false},
	}

	for _, tt := range tests {
		if got := IsAnnotation(tt.comment); got != tt.want {
			t.Errorf("IsAnnotation(%q) = %v, want %v", tt.comment, got, tt.want)
		}
	}
}
