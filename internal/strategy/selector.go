package strategy

import "github.com/toyz/extractgen/internal/models"

// Selector maps a validated declaration to its generation strategy
type Selector struct{}

// NewSelector creates a new selector
func NewSelector() *Selector {
	return &Selector{}
}

// Select is total over validated input and returns equal strategies for equal input
func (s *Selector) Select(v *Validated) models.GenerationStrategy {
	config := v.Config()
	if config.HasVia() {
		return &models.DelegatedStrategy{
			Via:     config.Via,
			Convert: config.Convert,
		}
	}

	decl := v.Declaration()
	plan := make([]models.FieldPlan, len(decl.Fields))
	for i, field := range decl.Fields {
		plan[i] = models.FieldPlan{Field: field}
		if override := config.Override(field.Index); override != nil {
			plan[i].Via = override.Via
		}
	}

	return &models.DirectStrategy{
		Plan:    plan,
		Newtype: v.Shape().Aggregate == models.AggregateNewtype,
	}
}
