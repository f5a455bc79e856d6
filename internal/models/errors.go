package models

import "fmt"

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeConfig ErrorType = iota
	ErrorTypeModule
	ErrorTypeFileSystem
	ErrorTypeGeneration
	ErrorTypeDiagnostics
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeConfig:
		return "Configuration Error"
	case ErrorTypeModule:
		return "Module Resolution Error"
	case ErrorTypeFileSystem:
		return "File System Error"
	case ErrorTypeGeneration:
		return "Code Generation Error"
	case ErrorTypeDiagnostics:
		return "Annotation Error"
	default:
		return "Unknown Error"
	}
}

// GeneratorError represents an error that occurred during code generation
type GeneratorError struct {
	Type        ErrorType      // type of error
	File        string         // file where error occurred
	Line        int            // line number where error occurred
	Message     string         // error message
	Cause       error          // underlying error cause
	Suggestions []string       // actionable hints for the user
	Context     map[string]any // extra key/value details
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}
