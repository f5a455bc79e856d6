package models

// GenerationStrategy is either *DirectStrategy or *DelegatedStrategy.
// The unexported method keeps the set closed.
type GenerationStrategy interface {
	Name() string
	isStrategy()
}

// FieldPlan describes how a single field is extracted
type FieldPlan struct {
	Field Field
	Via   *TypeExpr // nil extracts the field type directly
}

// Delegates reports whether the field goes through an intermediate type
func (p FieldPlan) Delegates() bool {
	return p.Via != nil
}

// ViaType renders the intermediate type, defaulting its argument to the field type
func (p FieldPlan) ViaType() string {
	if p.Via == nil {
		return ""
	}
	return p.Via.Instantiate(p.Field.Type)
}

// DirectStrategy extracts every field in declaration order
type DirectStrategy struct {
	Plan    []FieldPlan
	Newtype bool
}

func (*DirectStrategy) Name() string { return "direct" }
func (*DirectStrategy) isStrategy()  {}

// DelegatedStrategy extracts the via type and converts it into the target
type DelegatedStrategy struct {
	Via     *TypeExpr
	Convert *TypeExpr // nil uses the FromVia method
}

func (*DelegatedStrategy) Name() string { return "delegated" }
func (*DelegatedStrategy) isStrategy()  {}
