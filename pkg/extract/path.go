package extract

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
)

// Path binds path parameters into T using `uri` tags. Parameters come from
// WithPathParams when a framework adapter set them, otherwise from
// http.Request.PathValue.
type Path[T any] struct {
	Value T
}

// Extract implements Extractor
func (p *Path[T]) Extract(ctx context.Context, r *http.Request, _ any) error {
	params, ok := PathParams(ctx)
	if !ok {
		params = pathValues(r, reflect.TypeFor[T]())
	}

	values := make(map[string][]string, len(params))
	for name, value := range params {
		values[name] = []string{value}
	}

	if err := binding.Uri.BindUri(values, &p.Value); err != nil {
		return rejectBinding("path", err)
	}
	return nil
}

// Inner returns the bound value
func (p Path[T]) Inner() T { return p.Value }

func pathValues(r *http.Request, t reflect.Type) map[string]string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	params := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("uri"), ",")
		if name == "" || name == "-" {
			continue
		}
		if value := r.PathValue(name); value != "" {
			params[name] = value
		}
	}
	return params
}
