package annotations

import (
	"fmt"

	"github.com/toyz/extractgen/internal/models"
)

// Prefix introduces every annotation comment
const Prefix = "//extract::"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	DeriveAnnotation AnnotationType = iota
	FieldAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case DeriveAnnotation:
		return "derive"
	case FieldAnnotation:
		return "field"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "derive":
		return DeriveAnnotation, nil
	case "field":
		return FieldAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// Site is where an annotation is written
type Site int

const (
	SiteType Site = iota
	SiteField
)

func (s Site) String() string {
	if s == SiteField {
		return "struct field"
	}
	return "type declaration"
}

// ParameterType is the kind of value an option accepts
type ParameterType int

const (
	// TypeValue accepts any type expression
	TypeValue ParameterType = iota
	// FuncValue accepts a plain or package-qualified function name
	FuncValue
)

func (p ParameterType) String() string {
	switch p {
	case TypeValue:
		return "type"
	case FuncValue:
		return "function name"
	default:
		return "unknown"
	}
}

// ParameterSpec defines a single option of an annotation
type ParameterSpec struct {
	Type        ParameterType
	Description string
	Example     string
}

// AnnotationSchema defines the options an annotation type accepts
type AnnotationSchema struct {
	Type        AnnotationType
	Site        Site
	Description string
	Parameters  map[string]ParameterSpec
	Examples    []string
}

// ParsedOption is a single -Key or -Key=Value option as written
type ParsedOption struct {
	Key      string
	KeySpan  models.Span
	Span     models.Span // whole option including the value
	HasValue bool        // an "=" was present
	Value    *models.TypeExpr
}

// ParsedAnnotation is one annotation line after syntax parsing
type ParsedAnnotation struct {
	Type     AnnotationType
	TypeSpan models.Span
	Options  []ParsedOption
	Span     models.Span
	Raw      string
}

// Option returns the first option with the given key
func (p *ParsedAnnotation) Option(key string) (ParsedOption, bool) {
	for _, opt := range p.Options {
		if opt.Key == key {
			return opt, true
		}
	}
	return ParsedOption{}, false
}
