package models

// FieldCount is the coarse field arity of a declaration
type FieldCount int

const (
	CountZero FieldCount = iota
	CountOne
	CountMany
)

// CountOf classifies n fields
func CountOf(n int) FieldCount {
	switch {
	case n <= 0:
		return CountZero
	case n == 1:
		return CountOne
	default:
		return CountMany
	}
}

func (c FieldCount) String() string {
	switch c {
	case CountZero:
		return "zero"
	case CountOne:
		return "one"
	default:
		return "many"
	}
}

// AggregateKind says how fields are addressed
type AggregateKind int

const (
	// AggregateNamed is a struct with at least one named field
	AggregateNamed AggregateKind = iota
	// AggregatePositional is a struct whose fields are all embedded
	AggregatePositional
	// AggregateUnit is an empty struct
	AggregateUnit
	// AggregateNewtype is a defined type over a non-struct type
	AggregateNewtype
	// AggregateOpaque is an alias or an interface
	AggregateOpaque
)

func (k AggregateKind) String() string {
	switch k {
	case AggregateNamed:
		return "named"
	case AggregatePositional:
		return "positional"
	case AggregateUnit:
		return "unit"
	case AggregateNewtype:
		return "newtype"
	case AggregateOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Shape is the structural summary the strategy layer works from
type Shape struct {
	Count      FieldCount
	FieldTotal int
	TypeParams []TypeParam
	Aggregate  AggregateKind
	Visibility Visibility
}

// IsGeneric reports whether the shape has type parameters
func (s Shape) IsGeneric() bool {
	return len(s.TypeParams) > 0
}

// IsTupleLike reports whether fields are positional rather than named
func (s Shape) IsTupleLike() bool {
	return s.Aggregate == AggregatePositional || s.Aggregate == AggregateNewtype
}
