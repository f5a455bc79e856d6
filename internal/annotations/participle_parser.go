package annotations

import (
	"errors"
	"go/token"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/extractgen/internal/models"
)

// annotationNode is the root of a single //extract:: comment
type annotationNode struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Namespace string        `parser:"'//' @Ident '::'"`
	Kind      *identNode    `parser:"@@"`
	Options   []*optionNode `parser:"@@*"`
}

type identNode struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Name string `parser:"@Ident"`
}

// optionNode is -Key or -Key=Value
type optionNode struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Key   *identNode `parser:"'-' @@"`
	Value *valueNode `parser:"@@?"`
}

type valueNode struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Expr *typeExprNode `parser:"'=' @@?"`
}

// typeExprNode is a restricted Go type expression: *pkg.Name[Args...]
type typeExprNode struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Pointer bool            `parser:"@'*'?"`
	Head    string          `parser:"@Ident"`
	Tail    string          `parser:"( '.' @Ident )?"`
	Args    []*typeExprNode `parser:"( '[' @@ ( ',' @@ )* ']' )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Slashes", Pattern: `//`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[-=\[\],.*]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ParticipleParser turns annotation comment lines into ParsedAnnotations
type ParticipleParser struct {
	parser *participle.Parser[annotationNode]
}

// NewParticipleParser creates a new parser using participle
func NewParticipleParser() *ParticipleParser {
	return &ParticipleParser{
		parser: participle.MustBuild[annotationNode](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
	}
}

// ParseAnnotation parses one comment line. Syntax problems are reported as a
// diagnostic at the first token that could not be parsed.
func (p *ParticipleParser) ParseAnnotation(raw models.RawAnnotation) (*ParsedAnnotation, *models.Diagnostic) {
	rebase := positionRebaser(raw.Pos)

	node, err := p.parser.ParseString(raw.Pos.Filename, raw.Text)
	if err != nil {
		diag := syntaxDiagnostic(err, raw, rebase)
		return nil, &diag
	}

	annotationType, err := ParseAnnotationType(node.Kind.Name)
	if err != nil {
		diag := unknownAnnotationDiagnostic(node.Kind.Name, rebase.span(node.Kind.Pos, node.Kind.EndPos))
		return nil, &diag
	}

	parsed := &ParsedAnnotation{
		Type:     annotationType,
		TypeSpan: rebase.span(node.Kind.Pos, node.Kind.EndPos),
		Span:     rebase.span(node.Pos, node.EndPos),
		Raw:      raw.Text,
		Options:  make([]ParsedOption, 0, len(node.Options)),
	}

	for _, opt := range node.Options {
		option := ParsedOption{
			Key:     opt.Key.Name,
			KeySpan: rebase.span(opt.Key.Pos, opt.Key.EndPos),
			Span:    rebase.span(opt.Pos, opt.EndPos),
		}
		if opt.Value != nil {
			option.HasValue = true
			if opt.Value.Expr != nil {
				option.Value = opt.Value.Expr.toModel(rebase)
			}
		}
		parsed.Options = append(parsed.Options, option)
	}

	return parsed, nil
}

func (n *typeExprNode) toModel(rebase rebaser) *models.TypeExpr {
	expr := &models.TypeExpr{
		Pointer: n.Pointer,
		Name:    n.Head,
		Span:    rebase.span(n.Pos, n.EndPos),
	}
	if n.Tail != "" {
		expr.Package = n.Head
		expr.Name = n.Tail
	}
	for _, arg := range n.Args {
		expr.Args = append(expr.Args, arg.toModel(rebase))
	}
	return expr
}

// rebaser maps positions inside a comment onto the source file
type rebaser struct {
	base token.Position
}

func positionRebaser(base token.Position) rebaser {
	return rebaser{base: base}
}

func (r rebaser) position(pos lexer.Position) token.Position {
	return token.Position{
		Filename: r.base.Filename,
		Offset:   r.base.Offset + pos.Offset,
		Line:     r.base.Line + pos.Line - 1,
		Column:   r.base.Column + pos.Column - 1,
	}
}

func (r rebaser) span(start, end lexer.Position) models.Span {
	if end.Line == 0 {
		end = start
	}
	return models.SpanFromPositions(r.position(start), r.position(end))
}

func syntaxDiagnostic(err error, raw models.RawAnnotation, rebase rebaser) models.Diagnostic {
	var perr participle.Error
	if !errors.As(err, &perr) {
		start := models.SpanFromPositions(raw.Pos, raw.Pos)
		return models.NewDiagnostic(models.KindParse, models.CodeSyntax, start,
			"malformed annotation: %v", err)
	}

	pos := rebase.position(perr.Position())
	span := models.SpanFromPositions(pos, pos)

	var unexpected *participle.UnexpectedTokenError
	if errors.As(err, &unexpected) {
		if unexpected.Unexpected.EOF() {
			return models.NewDiagnostic(models.KindParse, models.CodeSyntax, span,
				"unexpected end of annotation").
				WithPrimaryLabel("annotation ends here").
				WithHelp("annotations have the form `%s<kind> -Key=Value`", Prefix)
		}
		end := pos
		end.Column += len(unexpected.Unexpected.Value)
		return models.NewDiagnostic(models.KindParse, models.CodeSyntax, models.SpanFromPositions(pos, end),
			"unexpected `%s` in annotation", unexpected.Unexpected.Value).
			WithPrimaryLabel("not expected here").
			WithHelp("annotations have the form `%s<kind> -Key=Value`", Prefix)
	}

	return models.NewDiagnostic(models.KindParse, models.CodeSyntax, span,
		"malformed annotation: %s", perr.Message())
}
