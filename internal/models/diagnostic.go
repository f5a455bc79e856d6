package models

import (
	"fmt"
	"sort"
	"strings"
)

// DiagnosticKind separates annotation syntax problems from semantic ones
type DiagnosticKind int

const (
	KindParse DiagnosticKind = iota
	KindValidation
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Code is a stable identifier for a class of diagnostic
type Code string

const (
	CodeSyntax            Code = "E0101"
	CodeUnknownAnnotation Code = "E0102"
	CodeUnknownKey        Code = "E0103"
	CodeMalformedValue    Code = "E0104"
	CodeDuplicateKey      Code = "E0105"

	CodeGenericsRequireVia     Code = "E0201"
	CodeConflictingDelegation  Code = "E0202"
	CodeZeroFieldsNoVia        Code = "E0203"
	CodeUnsupportedDeclaration Code = "E0204"
	CodeConvertWithoutVia      Code = "E0205"
)

// NoteKind distinguishes "note:" lines from "help:" lines
type NoteKind int

const (
	NoteInfo NoteKind = iota
	NoteHelp
)

func (k NoteKind) String() string {
	if k == NoteHelp {
		return "help"
	}
	return "note"
}

// Note is a trailing remark attached to a diagnostic
type Note struct {
	Kind    NoteKind
	Message string
}

// Label marks a secondary span that is relevant to a diagnostic
type Label struct {
	Span    Span
	Message string
}

// Diagnostic is a single user-facing error produced during generation
type Diagnostic struct {
	Kind         DiagnosticKind
	Code         Code
	Message      string
	Primary      Span
	PrimaryLabel string
	Labels       []Label
	Notes        []Note
}

// NewDiagnostic creates a diagnostic anchored at span
func NewDiagnostic(kind DiagnosticKind, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Primary: span,
	}
}

// WithPrimaryLabel sets the text printed under the primary span
func (d Diagnostic) WithPrimaryLabel(message string) Diagnostic {
	d.PrimaryLabel = message
	return d
}

// WithLabel attaches a secondary span
func (d Diagnostic) WithLabel(span Span, message string) Diagnostic {
	d.Labels = append(append([]Label(nil), d.Labels...), Label{Span: span, Message: message})
	return d
}

// WithNote attaches a note
func (d Diagnostic) WithNote(format string, args ...any) Diagnostic {
	return d.withNote(NoteInfo, fmt.Sprintf(format, args...))
}

// WithHelp attaches a help line
func (d Diagnostic) WithHelp(format string, args ...any) Diagnostic {
	return d.withNote(NoteHelp, fmt.Sprintf(format, args...))
}

func (d Diagnostic) withNote(kind NoteKind, message string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Kind: kind, Message: message})
	return d
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: error[%s]: %s", d.Primary, d.Code, d.Message)
}

// Diagnostics is an ordered collection of diagnostics
type Diagnostics []Diagnostic

// Add appends a diagnostic
func (ds *Diagnostics) Add(d Diagnostic) {
	*ds = append(*ds, d)
}

// Extend appends every diagnostic of other, preserving order
func (ds *Diagnostics) Extend(other Diagnostics) {
	*ds = append(*ds, other...)
}

// HasErrors reports whether anything was collected
func (ds Diagnostics) HasErrors() bool {
	return len(ds) > 0
}

// Sorted returns a copy ordered by primary location. Diagnostics at the same
// location keep their relative order.
func (ds Diagnostics) Sorted() Diagnostics {
	sorted := make(Diagnostics, len(ds))
	copy(sorted, ds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Primary.Before(sorted[j].Primary)
	})
	return sorted
}

// Count returns the number of diagnostics of the given kind
func (ds Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Err returns nil for an empty collection, otherwise a *DiagnosticError
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return &DiagnosticError{Diagnostics: ds}
}

// DiagnosticError wraps a non-empty set of diagnostics as an error
type DiagnosticError struct {
	Diagnostics Diagnostics
}

func (e *DiagnosticError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		b.WriteString("\n  - ")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Unwrap exposes every diagnostic to errors.Is and errors.As
func (e *DiagnosticError) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = d
	}
	return errs
}
