package utils

import "fmt"

// Wrap helpers keep error messages uniform across the generator

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, err error) error {
	return fmt.Errorf("failed to parse %s: %w", item, err)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, err error) error {
	return fmt.Errorf("failed to generate %s: %w", item, err)
}

// WrapLoadError wraps an error with a "failed to load" message
func WrapLoadError(item string, err error) error {
	return fmt.Errorf("failed to load %s: %w", item, err)
}

// WrapReadError wraps an error with a "failed to read" message
func WrapReadError(item string, err error) error {
	return fmt.Errorf("failed to read %s: %w", item, err)
}

// WrapWriteError wraps an error with a "failed to write" message
func WrapWriteError(item string, err error) error {
	return fmt.Errorf("failed to write %s: %w", item, err)
}

// WrapProcessError wraps an error with a "failed to process" message
func WrapProcessError(item string, err error) error {
	return fmt.Errorf("failed to process %s: %w", item, err)
}
