package parser

import "github.com/toyz/extractgen/internal/models"

// Inspect classifies the structure of a declaration. It is total: every
// declaration the scanner produces has a shape.
func Inspect(decl *models.ExtractorDeclaration) models.Shape {
	shape := models.Shape{
		TypeParams: decl.TypeParams,
		Visibility: decl.Visibility,
	}

	switch decl.Kind {
	case models.DeclAlias, models.DeclInterface:
		shape.Aggregate = models.AggregateOpaque
	case models.DeclDefined:
		shape.Aggregate = models.AggregateNewtype
		shape.FieldTotal = len(decl.Fields)
	default:
		shape.FieldTotal = len(decl.Fields)
		shape.Aggregate = structAggregate(decl.Fields)
	}

	shape.Count = models.CountOf(shape.FieldTotal)
	return shape
}

func structAggregate(fields []models.Field) models.AggregateKind {
	if len(fields) == 0 {
		return models.AggregateUnit
	}
	for _, f := range fields {
		if !f.Embedded {
			return models.AggregateNamed
		}
	}
	return models.AggregatePositional
}
