package utils

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"

	"golang.org/x/tools/imports"
)

// FormatGoSource formats generated code the way goimports does, removing
// imports the code does not use. filename places the source in its package
// directory. go/format is the fallback when goimports rejects the input.
func FormatGoSource(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err == nil {
		return formatted, nil
	}

	formatted, fmtErr := format.Source(source)
	if fmtErr != nil {
		if parseErr := ValidateGoCode(string(source)); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w (goimports error: %v)", parseErr, err)
		}
		return source, fmtErr
	}
	return formatted, nil
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}

// SetLocalPrefix makes FormatGoSource group imports under the comma separated
// prefixes after third-party imports. Call it before formatting concurrently.
func SetLocalPrefix(prefix string) {
	imports.LocalPrefix = prefix
}
