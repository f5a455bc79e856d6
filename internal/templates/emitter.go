package templates

import (
	"fmt"
	"strconv"

	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/strategy"
)

// Emitter renders the Extract method of a validated declaration
type Emitter struct {
	registry *TemplateRegistry
}

// NewEmitter creates an emitter backed by the builtin templates
func NewEmitter() *Emitter {
	return &Emitter{registry: registry}
}

// Emit renders the implementation for the strategy selected for v
func (e *Emitter) Emit(v *strategy.Validated, s models.GenerationStrategy) (*models.GeneratedImplementation, error) {
	decl := v.Declaration()
	config := v.Config()

	var (
		body      string
		converter string
		err       error
	)
	switch s := s.(type) {
	case *models.DirectStrategy:
		body, err = e.direct(decl, config, s)
	case *models.DelegatedStrategy:
		body, err = e.delegated(decl, config, s)
		if s.Convert == nil {
			converter = s.Via.String()
		}
	default:
		return nil, fmt.Errorf("unknown generation strategy %T", s)
	}
	if err != nil {
		return nil, err
	}

	assertions, err := executeTemplate("assertions", e.registry.MustGet("assertions"), AssertionData{
		TypeName:     decl.Name,
		Generic:      decl.IsGeneric(),
		ConverterVia: converter,
	})
	if err != nil {
		return nil, err
	}

	return &models.GeneratedImplementation{
		TypeName: decl.Name,
		File:     decl.File,
		Line:     decl.NameSpan.Line,
		Strategy: s,
		Source:   body + assertions,
	}, nil
}

func (e *Emitter) direct(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, s *models.DirectStrategy) (string, error) {
	data := DirectData{
		TypeName: decl.Name,
		Receiver: decl.Receiver(),
		Newtype:  s.Newtype,
		Result:   "out",
	}
	if s.Newtype {
		data.Result = decl.Receiver() + "(inner)"
	}

	for _, plan := range s.Plan {
		field := plan.Field
		if field.Name == "_" {
			continue
		}

		fd := FieldData{
			Name:    field.Name,
			Type:    field.Type,
			Elem:    field.ElemType(),
			Pointer: field.IsPointer(),
			Target:  "out." + field.Name,
			Reject:  rejectExpr(config, fieldRejection(decl.Name, field.Name)),
		}
		if s.Newtype {
			fd.Target = "inner"
			fd.Declare = true
		}
		if plan.Delegates() {
			fd.ViaVar = fmt.Sprintf("via%d", field.Index)
			fd.ViaType = plan.ViaType()
		}
		data.Fields = append(data.Fields, fd)
	}

	return executeTemplate("direct", e.registry.MustGet("direct"), data)
}

func (e *Emitter) delegated(decl *models.ExtractorDeclaration, config *models.AnnotationConfig, s *models.DelegatedStrategy) (string, error) {
	data := DelegatedData{
		TypeName:      decl.Name,
		Receiver:      decl.Receiver(),
		ViaType:       s.Via.String(),
		ViaPointer:    s.Via.Pointer,
		ViaReject:     rejectExpr(config, "err"),
		ConvertReject: rejectExpr(config, fmt.Sprintf("extract.ConversionRejection(%s, err)", strconv.Quote(decl.Name))),
	}
	if s.Via.Pointer {
		elem := *s.Via
		elem.Pointer = false
		data.ViaElem = elem.String()
	}
	if s.Convert != nil {
		data.Convert = s.Convert.Instantiate(decl.TypeParamNames()...)
	}

	return executeTemplate("delegated", e.registry.MustGet("delegated"), data)
}

func fieldRejection(typeName, field string) string {
	return fmt.Sprintf("extract.FieldRejection(%s, %s, err)", strconv.Quote(typeName), strconv.Quote(field))
}

// rejectExpr wraps a rejection in the custom rejection type when one is set
func rejectExpr(config *models.AnnotationConfig, expr string) string {
	if config == nil || config.Rejection == nil {
		return expr
	}
	return fmt.Sprintf("extract.RejectAs[%s](%s)", config.Rejection.String(), expr)
}
