package generator

import "github.com/toyz/extractgen/internal/models"

// CodeGenerator turns annotated declarations into Extract implementations
type CodeGenerator interface {
	GenerateDeclaration(decl *models.ExtractorDeclaration) (*models.GeneratedImplementation, models.Diagnostics, error)
	GeneratePackage(metadata *models.PackageMetadata) (*models.GeneratedFile, models.Diagnostics, error)
}

// Formatter formats the source of a generated file
type Formatter func(filename string, source []byte) ([]byte, error)
