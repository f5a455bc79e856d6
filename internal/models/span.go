package models

import (
	"fmt"
	"go/token"
)

// Span is a source region. Line and column are 1-based, as in token.Position.
type Span struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// SpanFromPositions builds a span from a start and end position
func SpanFromPositions(start, end token.Position) Span {
	span := Span{
		File:      start.Filename,
		Line:      start.Line,
		Column:    start.Column,
		EndLine:   end.Line,
		EndColumn: end.Column,
	}
	if span.EndLine == 0 {
		span.EndLine = span.Line
		span.EndColumn = span.Column
	}
	return span
}

// IsValid reports whether the span points at a real location
func (s Span) IsValid() bool {
	return s.Line > 0
}

// Width returns the number of columns covered on the first line, at least 1
func (s Span) Width() int {
	if s.EndLine != s.Line || s.EndColumn <= s.Column {
		return 1
	}
	return s.EndColumn - s.Column
}

// Before orders spans by file, line and column
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.Line != other.Line {
		return s.Line < other.Line
	}
	return s.Column < other.Column
}

func (s Span) String() string {
	switch {
	case s.File == "" && !s.IsValid():
		return "<unknown>"
	case !s.IsValid():
		return s.File
	case s.File == "":
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}
