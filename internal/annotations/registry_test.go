package annotations

import (
	"sync"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	if registry == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if types := registry.ListTypes(); len(types) != 0 {
		t.Errorf("Expected empty registry, got %d types", len(types))
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry1 := DefaultRegistry()
	registry2 := DefaultRegistry()

	if registry1 != registry2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
	if !registry1.IsRegistered(DeriveAnnotation) || !registry1.IsRegistered(FieldAnnotation) {
		t.Error("DefaultRegistry() should contain the builtin schemas")
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		typ     AnnotationType
		schema  AnnotationSchema
		wantErr bool
	}{
		{
			name:   "valid schema",
			typ:    DeriveAnnotation,
			schema: DeriveAnnotationSchema,
		},
		{
			name:    "mismatched type",
			typ:     FieldAnnotation,
			schema:  DeriveAnnotationSchema,
			wantErr: true,
		},
		{
			name: "lower-case parameter",
			typ:  FieldAnnotation,
			schema: AnnotationSchema{
				Type:       FieldAnnotation,
				Parameters: map[string]ParameterSpec{"via": {Type: TypeValue}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.typ, tt.schema)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	registry := NewRegistry()
	if err := RegisterBuiltinSchemas(registry); err != nil {
		t.Fatalf("RegisterBuiltinSchemas() error = %v", err)
	}
	if err := registry.Register(DeriveAnnotation, DeriveAnnotationSchema); err == nil {
		t.Error("expected an error registering derive twice")
	}

	types := registry.ListTypes()
	if len(types) != 2 || types[0] != DeriveAnnotation || types[1] != FieldAnnotation {
		t.Errorf("ListTypes() = %v", types)
	}
}

func TestGetSchemaUnknown(t *testing.T) {
	if _, err := NewRegistry().GetSchema(DeriveAnnotation); err == nil {
		t.Error("expected an error for an unregistered type")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := DefaultRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := registry.GetSchema(FieldAnnotation); err != nil {
				t.Errorf("GetSchema() error = %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestSchemaSuggest(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"via", "Via"},
		{"Vai", "Via"},
		{"Rejectoin", "Rejection"},
		{"Convertt", "Convert"},
		{"Timeout", ""},
	}

	for _, tt := range tests {
		if got := DeriveAnnotationSchema.Suggest(tt.key); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestParseAnnotationType(t *testing.T) {
	for _, typ := range []AnnotationType{DeriveAnnotation, FieldAnnotation} {
		parsed, err := ParseAnnotationType(typ.String())
		if err != nil || parsed != typ {
			t.Errorf("ParseAnnotationType(%q) = %v, %v", typ.String(), parsed, err)
		}
	}
	if _, err := ParseAnnotationType("route"); err == nil {
		t.Error("expected an error for an unknown annotation type")
	}
}
