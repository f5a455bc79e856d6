package extract

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin/binding"
)

// Query binds the URL query string into T using `form` tags
type Query[T any] struct {
	Value T
}

// Extract implements Extractor
func (q *Query[T]) Extract(_ context.Context, r *http.Request, _ any) error {
	if err := binding.Query.Bind(r, &q.Value); err != nil {
		return rejectBinding("query", err)
	}
	return nil
}

// Inner returns the bound value
func (q Query[T]) Inner() T { return q.Value }

// Form binds a url-encoded or multipart form body into T using `form` tags
type Form[T any] struct {
	Value T
}

// Extract implements Extractor
func (f *Form[T]) Extract(_ context.Context, r *http.Request, _ any) error {
	if err := binding.Form.Bind(r, &f.Value); err != nil {
		return rejectBinding("form", err)
	}
	return nil
}

// Inner returns the bound value
func (f Form[T]) Inner() T { return f.Value }

// Headers binds request headers into T using `header` tags
type Headers[T any] struct {
	Value T
}

// Extract implements Extractor
func (h *Headers[T]) Extract(_ context.Context, r *http.Request, _ any) error {
	if err := binding.Header.Bind(r, &h.Value); err != nil {
		return rejectBinding("headers", err)
	}
	return nil
}

// Inner returns the bound value
func (h Headers[T]) Inner() T { return h.Value }
