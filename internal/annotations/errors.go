package annotations

import (
	"strings"

	"github.com/toyz/extractgen/internal/models"
)

func unknownAnnotationDiagnostic(kind string, span models.Span) models.Diagnostic {
	return models.NewDiagnostic(models.KindParse, models.CodeUnknownAnnotation, span,
		"unknown annotation `%s%s`", Prefix, kind).
		WithPrimaryLabel("unknown annotation kind").
		WithHelp("known annotations are `%sderive` on types and `%sfield` on struct fields", Prefix, Prefix)
}

func misplacedAnnotationDiagnostic(annotationType AnnotationType, expected Site, span models.Span) models.Diagnostic {
	return models.NewDiagnostic(models.KindParse, models.CodeUnknownAnnotation, span,
		"`%s%s` cannot be used on a %s", Prefix, annotationType, expected).
		WithPrimaryLabel("misplaced annotation").
		WithHelp("`%sderive` belongs on a type declaration, `%sfield` on a struct field", Prefix, Prefix)
}

func unknownKeyDiagnostic(schema AnnotationSchema, opt ParsedOption) models.Diagnostic {
	diag := models.NewDiagnostic(models.KindParse, models.CodeUnknownKey, opt.KeySpan,
		"unknown key `%s` for `%s%s`", opt.Key, Prefix, schema.Type).
		WithPrimaryLabel("unknown key")

	if suggestion := schema.Suggest(opt.Key); suggestion != "" {
		return diag.WithHelp("did you mean `-%s`?", suggestion)
	}
	return diag.WithHelp("supported keys: %s", formatKeys(schema.ParameterNames()))
}

func duplicateKeyDiagnostic(key string, first, second ParsedOption) models.Diagnostic {
	return models.NewDiagnostic(models.KindParse, models.CodeDuplicateKey, second.Span,
		"duplicate key `%s`", key).
		WithPrimaryLabel("duplicate definition").
		WithLabel(first.Span, "first defined here")
}

func malformedValueDiagnostic(key string, spec ParameterSpec, opt ParsedOption, reason string) models.Diagnostic {
	span := opt.Span
	if opt.Value != nil {
		span = opt.Value.Span
	}
	return models.NewDiagnostic(models.KindParse, models.CodeMalformedValue, span,
		"malformed value for `%s`: %s", key, reason).
		WithPrimaryLabel("expected a " + spec.Type.String()).
		WithHelp("for example `%s`", spec.Example)
}

func formatKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "`-" + k + "`"
	}
	return strings.Join(quoted, ", ")
}
