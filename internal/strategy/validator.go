package strategy

import (
	"strings"

	"github.com/toyz/extractgen/internal/models"
)

// Validated is a declaration that passed every rule. Only Validate creates it,
// so the selector never sees an invalid combination.
type Validated struct {
	decl   *models.ExtractorDeclaration
	config *models.AnnotationConfig
	shape  models.Shape
}

func (v *Validated) Declaration() *models.ExtractorDeclaration { return v.decl }
func (v *Validated) Config() *models.AnnotationConfig         { return v.config }
func (v *Validated) Shape() models.Shape                       { return v.shape }

// rule inspects one aspect of a declaration and reports at most one diagnostic
type rule func(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, shape models.Shape) *models.Diagnostic

// Validator checks that a declaration's shape and annotations can be generated
type Validator struct {
	rules []rule
}

// NewValidator creates a validator with the rules in their fixed order
func NewValidator() *Validator {
	return &Validator{
		rules: []rule{
			genericsRequireVia,
			viaExcludesFieldOverrides,
			zeroFieldsRequireVia,
			supportedDeclaration,
			convertRequiresVia,
		},
	}
}

// Validate runs every rule and returns all of their diagnostics in rule order
func (v *Validator) Validate(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, shape models.Shape) (*Validated, models.Diagnostics) {
	var diags models.Diagnostics
	for _, check := range v.rules {
		if d := check(decl, config, shape); d != nil {
			diags.Add(*d)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return &Validated{decl: decl, config: config, shape: shape}, nil
}

func genericsRequireVia(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, shape models.Shape) *models.Diagnostic {
	if !shape.IsGeneric() || config.HasVia() {
		return nil
	}

	first := shape.TypeParams[0]
	names := make([]string, len(shape.TypeParams))
	for i, p := range shape.TypeParams {
		names[i] = p.Name
	}

	d := models.NewDiagnostic(models.KindValidation, models.CodeGenericsRequireVia, first.Span,
		"generics require a delegation target").
		WithPrimaryLabel("type parameter `"+first.Name+"` declared here").
		WithHelp("add a delegation target, for example `//extract::derive -Via=extract.Json[%s]`", strings.Join(names, ", ")).
		WithNote("handlers taking `%s[...]` will not compile until `%s` implements extract.Extractor", decl.Name, decl.Name)
	return &d
}

func viaExcludesFieldOverrides(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, shape models.Shape) *models.Diagnostic {
	if !config.HasVia() || !config.HasOverrides() {
		return nil
	}

	d := models.NewDiagnostic(models.KindValidation, models.CodeConflictingDelegation, config.ViaSpan,
		"delegation target and per-field overrides are mutually exclusive").
		WithPrimaryLabel("`" + decl.Name + "` is extracted through `" + config.Via.String() + "`")
	for _, o := range config.FieldOverrides {
		d = d.WithLabel(o.Span, "field `"+o.FieldName+"` overrides its extraction here")
	}
	d = d.WithHelp("remove `-Via` to extract field by field, or remove the `//extract::field` annotations")
	return &d
}

func zeroFieldsRequireVia(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, shape models.Shape) *models.Diagnostic {
	if shape.Count != models.CountZero || config.HasVia() || shape.Aggregate == models.AggregateOpaque {
		return nil
	}

	d := models.NewDiagnostic(models.KindValidation, models.CodeZeroFieldsNoVia, decl.NameSpan,
		"zero-field type needs no extraction, or a delegation target").
		WithPrimaryLabel("`" + decl.Name + "` has no fields").
		WithHelp("remove `//extract::derive`, or add `-Via=<Type>` to build `%s` from another extractor", decl.Name)
	return &d
}

func supportedDeclaration(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, shape models.Shape) *models.Diagnostic {
	if shape.Aggregate != models.AggregateOpaque {
		return nil
	}

	d := models.NewDiagnostic(models.KindValidation, models.CodeUnsupportedDeclaration, decl.NameSpan,
		"`//extract::derive` requires a struct or defined type").
		WithPrimaryLabel("`" + decl.Name + "` is an " + decl.Kind.String()).
		WithNote("methods cannot be declared on an %s", decl.Kind)
	return &d
}

func convertRequiresVia(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, shape models.Shape) *models.Diagnostic {
	if config.Convert == nil || config.HasVia() {
		return nil
	}

	d := models.NewDiagnostic(models.KindValidation, models.CodeConvertWithoutVia, config.Convert.Span,
		"`-Convert` requires a delegation target").
		WithPrimaryLabel("nothing to convert from").
		WithHelp("add `-Via=<Type>` naming the type `%s` converts from", config.Convert)
	return &d
}
