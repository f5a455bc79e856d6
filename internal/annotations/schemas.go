package annotations

import (
	"sort"
	"strings"
)

// DeriveAnnotationSchema defines the schema for //extract::derive annotations
var DeriveAnnotationSchema = AnnotationSchema{
	Type:        DeriveAnnotation,
	Site:        SiteType,
	Description: "Generates an Extract method for the annotated type",
	Parameters: map[string]ParameterSpec{
		"Via": {
			Type:        TypeValue,
			Description: "Extract this type first, then convert it into the annotated type",
			Example:     "-Via=extract.Json[T]",
		},
		"Rejection": {
			Type:        TypeValue,
			Description: "Wrap every failure in this rejection type; *R must implement extract.Rejecter",
			Example:     "-Rejection=ApiError",
		},
		"Convert": {
			Type:        FuncValue,
			Description: "Function converting the via value, instead of the FromVia method",
			Example:     "-Convert=FromPayload",
		},
	},
	Examples: []string{
		"//extract::derive",
		"//extract::derive -Via=extract.Json[T]",
		"//extract::derive -Rejection=ApiError",
		"//extract::derive -Via=extract.Query[Filter] -Convert=FilterFromQuery",
	},
}

// FieldAnnotationSchema defines the schema for //extract::field annotations
var FieldAnnotationSchema = AnnotationSchema{
	Type:        FieldAnnotation,
	Site:        SiteField,
	Description: "Extracts a single field through an intermediate type",
	Parameters: map[string]ParameterSpec{
		"Via": {
			Type:        TypeValue,
			Description: "Wrapper extractor; the field type is used as its argument when none is written",
			Example:     "-Via=extract.Json",
		},
	},
	Examples: []string{
		"//extract::field -Via=extract.Json",
		"//extract::field -Via=extract.Query[Filter]",
	},
}

// RegisterBuiltinSchemas registers all builtin annotation schemas
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range []AnnotationSchema{DeriveAnnotationSchema, FieldAnnotationSchema} {
		if err := registry.Register(schema.Type, schema); err != nil {
			return err
		}
	}
	return nil
}

// ParameterNames returns the schema's option names in sorted order
func (s AnnotationSchema) ParameterNames() []string {
	names := make([]string, 0, len(s.Parameters))
	for name := range s.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest returns the known option closest to key, or "" when nothing is close
func (s AnnotationSchema) Suggest(key string) string {
	best, bestDistance := "", 3
	for _, name := range s.ParameterNames() {
		if strings.EqualFold(name, key) {
			return name
		}
		if d := editDistance(strings.ToLower(name), strings.ToLower(key)); d < bestDistance {
			best, bestDistance = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
