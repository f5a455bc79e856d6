package extract

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader is read by RequestID
const RequestIDHeader = "X-Request-ID"

// RequestID is the caller's X-Request-ID, or a fresh UUID when none was sent
type RequestID string

// Extract implements Extractor
func (id *RequestID) Extract(_ context.Context, r *http.Request, _ any) error {
	value := strings.TrimSpace(r.Header.Get(RequestIDHeader))
	if value == "" {
		value = uuid.NewString()
	}
	*id = RequestID(value)
	return nil
}

// Bearer is the token of an `Authorization: Bearer <token>` header
type Bearer string

// Extract implements Extractor
func (b *Bearer) Extract(_ context.Context, r *http.Request, _ any) error {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Reject(http.StatusUnauthorized, "missing_authorization", "missing Authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return Reject(http.StatusUnauthorized, "invalid_authorization", "expected a bearer token")
	}

	*b = Bearer(token)
	return nil
}

// State extracts T from the application state
type State[T any] struct {
	Value T
}

// Extract implements Extractor
func (s *State[T]) Extract(_ context.Context, _ *http.Request, state any) error {
	value, ok := state.(T)
	if !ok {
		return Reject(http.StatusInternalServerError, "missing_state",
			fmt.Sprintf("application state %T does not provide %s", state, reflect.TypeFor[T]()))
	}
	s.Value = value
	return nil
}

// Inner returns the state value
func (s State[T]) Inner() T { return s.Value }

// Handler adapts a function taking an extracted T to http.Handler. Rejections
// are written as problem details.
func Handler[T any, P Pointer[T]](state any, fn func(http.ResponseWriter, *http.Request, T)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value, err := Extract[T, P](r.Context(), r, state)
		if err != nil {
			WriteError(w, err)
			return
		}
		fn(w, r, value)
	})
}
