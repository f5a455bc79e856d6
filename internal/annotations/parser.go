package annotations

import (
	"strings"

	"github.com/toyz/extractgen/internal/models"
)

// IsAnnotation reports whether a comment line is an //extract:: annotation
func IsAnnotation(comment string) bool {
	if !strings.HasPrefix(comment, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(comment[2:]), strings.TrimPrefix(Prefix, "//"))
}

// Parser builds an AnnotationConfig from every annotation on a declaration
type Parser struct {
	syntax   *ParticipleParser
	registry AnnotationRegistry
}

// NewParser creates a parser backed by the default registry
func NewParser() *Parser {
	return NewParserWithRegistry(DefaultRegistry())
}

// NewParserWithRegistry creates a parser with a custom schema registry
func NewParserWithRegistry(registry AnnotationRegistry) *Parser {
	return &Parser{
		syntax:   NewParticipleParser(),
		registry: registry,
	}
}

// Parse reads the derive annotations of decl and the field annotations of its
// fields. Any diagnostic makes the whole declaration fail; every line is still
// parsed so that all problems are reported together.
func (p *Parser) Parse(decl *models.ExtractorDeclaration) (*models.AnnotationConfig, models.Diagnostics) {
	var diags models.Diagnostics
	config := &models.AnnotationConfig{}
	seen := make(map[string]ParsedOption)

	for i, raw := range decl.Annotations {
		parsed, ok := p.parseAt(raw, SiteType, &diags)
		if !ok {
			continue
		}
		if i == 0 {
			config.DeriveSpan = parsed.Span
		}

		for _, opt := range p.checkOptions(parsed, seen, &diags) {
			switch opt.Key {
			case "Via":
				config.Via = opt.Value
				config.ViaSpan = opt.Span
			case "Rejection":
				config.Rejection = opt.Value
			case "Convert":
				config.Convert = opt.Value
			}
		}
	}

	for _, field := range decl.Fields {
		fieldSeen := make(map[string]ParsedOption)
		for _, raw := range field.Annotations {
			parsed, ok := p.parseAt(raw, SiteField, &diags)
			if !ok {
				continue
			}
			for _, opt := range p.checkOptions(parsed, fieldSeen, &diags) {
				if opt.Key == "Via" {
					config.FieldOverrides = append(config.FieldOverrides, models.FieldOverride{
						FieldIndex: field.Index,
						FieldName:  field.DisplayName(),
						Via:        opt.Value,
						Span:       opt.Span,
					})
				}
			}
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return config, nil
}

// ParseLine parses a single annotation and checks it against its schema
func (p *Parser) ParseLine(raw models.RawAnnotation, site Site) (*ParsedAnnotation, models.Diagnostics) {
	var diags models.Diagnostics
	parsed, ok := p.parseAt(raw, site, &diags)
	if !ok {
		return nil, diags
	}
	p.checkOptions(parsed, make(map[string]ParsedOption), &diags)
	if diags.HasErrors() {
		return nil, diags
	}
	return parsed, nil
}

func (p *Parser) parseAt(raw models.RawAnnotation, site Site, diags *models.Diagnostics) (*ParsedAnnotation, bool) {
	parsed, diag := p.syntax.ParseAnnotation(raw)
	if diag != nil {
		diags.Add(*diag)
		return nil, false
	}

	schema, err := p.registry.GetSchema(parsed.Type)
	if err != nil {
		diags.Add(unknownAnnotationDiagnostic(parsed.Type.String(), parsed.TypeSpan))
		return nil, false
	}
	if schema.Site != site {
		diags.Add(misplacedAnnotationDiagnostic(parsed.Type, site, parsed.TypeSpan))
		return nil, false
	}
	return parsed, true
}

// checkOptions returns the options that are known, well formed and not duplicated
func (p *Parser) checkOptions(parsed *ParsedAnnotation, seen map[string]ParsedOption, diags *models.Diagnostics) []ParsedOption {
	schema, _ := p.registry.GetSchema(parsed.Type)
	valid := make([]ParsedOption, 0, len(parsed.Options))

	for _, opt := range parsed.Options {
		spec, known := schema.Parameters[opt.Key]
		if !known {
			diags.Add(unknownKeyDiagnostic(schema, opt))
			continue
		}

		if first, dup := seen[opt.Key]; dup {
			diags.Add(duplicateKeyDiagnostic(opt.Key, first, opt))
			continue
		}
		seen[opt.Key] = opt

		if reason := checkValue(spec, opt); reason != "" {
			diags.Add(malformedValueDiagnostic(opt.Key, spec, opt, reason))
			continue
		}
		valid = append(valid, opt)
	}
	return valid
}

func checkValue(spec ParameterSpec, opt ParsedOption) string {
	switch {
	case !opt.HasValue:
		return "a value is required"
	case opt.Value == nil:
		return "missing value after `=`"
	}

	if spec.Type == FuncValue {
		if opt.Value.Pointer {
			return "a function name cannot be a pointer"
		}
		if opt.Value.HasArgs() {
			return "type arguments are filled in from the annotated type"
		}
	}
	return ""
}
