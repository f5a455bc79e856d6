package models

import "strings"

// TypeExpr is a Go type expression written inside an annotation, such as
// extract.Json[T] or *forms.Login.
type TypeExpr struct {
	Pointer bool
	Package string
	Name    string
	Args    []*TypeExpr
	Span    Span
}

// HasArgs reports whether type arguments were written explicitly
func (t *TypeExpr) HasArgs() bool {
	return len(t.Args) > 0
}

// Qualified returns the name with its package qualifier and without arguments
func (t *TypeExpr) Qualified() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Instantiate renders the expression, appending args when none were written
func (t *TypeExpr) Instantiate(args ...string) string {
	if t.HasArgs() || len(args) == 0 {
		return t.String()
	}

	var b strings.Builder
	if t.Pointer {
		b.WriteByte('*')
	}
	b.WriteString(t.Qualified())
	b.WriteByte('[')
	b.WriteString(strings.Join(args, ", "))
	b.WriteByte(']')
	return b.String()
}

func (t *TypeExpr) String() string {
	if t == nil {
		return ""
	}

	var b strings.Builder
	if t.Pointer {
		b.WriteByte('*')
	}
	b.WriteString(t.Qualified())
	if len(t.Args) > 0 {
		b.WriteByte('[')
		for i, arg := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}

// FieldOverride is a per-field delegation target
type FieldOverride struct {
	FieldIndex int
	FieldName  string
	Via        *TypeExpr
	Span       Span
}

// AnnotationConfig is the parsed form of every annotation on a declaration
type AnnotationConfig struct {
	Via            *TypeExpr
	Rejection      *TypeExpr
	Convert        *TypeExpr
	FieldOverrides []FieldOverride
	ViaSpan        Span // span of the whole -Via option
	DeriveSpan     Span
}

// HasVia reports whether a container-level delegation target is present
func (c *AnnotationConfig) HasVia() bool {
	return c.Via != nil
}

// HasOverrides reports whether any field declares its own delegation target
func (c *AnnotationConfig) HasOverrides() bool {
	return len(c.FieldOverrides) > 0
}

// Override returns the override for the field at index, if any
func (c *AnnotationConfig) Override(index int) *FieldOverride {
	for i := range c.FieldOverrides {
		if c.FieldOverrides[i].FieldIndex == index {
			return &c.FieldOverrides[i]
		}
	}
	return nil
}
