package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// StatusCoder is implemented by errors that carry an HTTP status code
type StatusCoder interface {
	StatusCode() int
}

// Rejection is returned by the builtin extractors
type Rejection struct {
	Status  int    `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Message, r.Err)
	}
	return r.Message
}

func (r *Rejection) Unwrap() error   { return r.Err }
func (r *Rejection) StatusCode() int { return r.Status }

// Reject creates a rejection with the given status code, kind and message
func Reject(status int, kind, message string) *Rejection {
	return &Rejection{Status: status, Kind: kind, Message: message}
}

// FieldError reports which field of a generated extractor failed
type FieldError struct {
	Type  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("extract %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("extract %s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// StatusCode is the status of the underlying rejection, or 400
func (e *FieldError) StatusCode() int {
	var sc StatusCoder
	if errors.As(e.Err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusBadRequest
}

// ConversionError reports a failed conversion from a delegation target
type ConversionError struct {
	Type string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert into %s: %v", e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// StatusCode is the status of the underlying error, or 422
func (e *ConversionError) StatusCode() int {
	var sc StatusCoder
	if errors.As(e.Err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusUnprocessableEntity
}

// FieldRejection wraps the rejection of a single field. Generated code calls it.
func FieldRejection(typeName, field string, err error) error {
	return &FieldError{Type: typeName, Field: field, Err: err}
}

// ConversionRejection wraps a failed conversion. Generated code calls it.
func ConversionRejection(typeName string, err error) error {
	return &ConversionError{Type: typeName, Err: err}
}

// StatusOf maps any error to an HTTP status code
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

// ProblemDetail is an RFC 9457 problem details response
type ProblemDetail struct {
	Type   string            `json:"type,omitempty"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Field  string            `json:"field,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError describes a single field validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Problem renders err as a problem detail
func Problem(err error) *ProblemDetail {
	status := StatusOf(err)
	problem := &ProblemDetail{
		Title:  http.StatusText(status),
		Status: status,
	}
	if err == nil {
		return problem
	}
	problem.Detail = err.Error()

	var rejection *Rejection
	if errors.As(err, &rejection) {
		problem.Type = "urn:extract:" + rejection.Kind
	}

	var fieldErr *FieldError
	if errors.As(err, &fieldErr) && fieldErr.Field != "" {
		problem.Field = fieldErr.Field
	}

	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		for _, fe := range invalid {
			problem.Errors = append(problem.Errors, ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed on the '%s' tag", fe.Tag()),
			})
		}
	}

	return problem
}

// WriteError writes err as an application/problem+json response
func WriteError(w http.ResponseWriter, err error) {
	problem := Problem(err)
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	_ = json.NewEncoder(w).Encode(problem)
}
