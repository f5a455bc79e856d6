// Package extract is the runtime side of extractgen. Generated code calls
// into it, and it ships the common extractors handlers are built from.
package extract

import (
	"context"
	"net/http"
)

// Extractor builds a value from an incoming request and the application state.
// Implementations fill the receiver on success and return a rejection otherwise.
type Extractor interface {
	Extract(ctx context.Context, r *http.Request, state any) error
}

// Pointer constrains P to a pointer to T that implements Extractor
type Pointer[T any] interface {
	*T
	Extractor
}

// Wrapper is an extractor that holds a single inner value, such as Json[T]
type Wrapper[T any] interface {
	Extractor
	Inner() T
}

// Converter is implemented by delegated targets that build themselves from V
type Converter[V any] interface {
	FromVia(V) error
}

// Rejecter is implemented by *R for custom rejection types
type Rejecter interface {
	error
	FromError(err error)
}

// Into runs dst against the request
func Into(ctx context.Context, r *http.Request, state any, dst Extractor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return dst.Extract(ctx, r, state)
}

// Extract runs the extractor of T and returns the extracted value
func Extract[T any, P Pointer[T]](ctx context.Context, r *http.Request, state any) (T, error) {
	var v T
	if err := Into(ctx, r, state, P(&v)); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// RejectAs converts err into the custom rejection R
func RejectAs[R any, P interface {
	*R
	Rejecter
}](err error) error {
	rejection := P(new(R))
	rejection.FromError(err)
	return rejection
}
