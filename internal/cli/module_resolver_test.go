package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/utils"
)

func TestModuleResolver(t *testing.T) {
	root := tempDir(t)
	writeFiles(t, root, map[string]string{
		"go.mod":              "module example.com/app\n\ngo 1.25\n",
		"internal/api/api.go": "package api",
	})
	resolver := NewModuleResolver(utils.NewFileReader())
	apiDir := filepath.Join(root, "internal", "api")

	tests := []struct {
		name       string
		custom     string
		wantPath   string
		wantImport string
	}{
		{name: "from go.mod", wantPath: "example.com/app", wantImport: "example.com/app/internal/api"},
		{name: "custom module", custom: "github.com/acme/app", wantPath: "github.com/acme/app", wantImport: "github.com/acme/app/internal/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, err := resolver.Resolve(apiDir, tt.custom)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, module.Path)
			assert.Equal(t, root, module.Root)

			importPath, err := module.ImportPath(apiDir)
			require.NoError(t, err)
			assert.Equal(t, tt.wantImport, importPath)
		})
	}
}

func TestModuleResolverWithoutGoMod(t *testing.T) {
	dir := tempDir(t)
	resolver := NewModuleResolver(utils.NewFileReader())

	module, err := resolver.Resolve(dir, "example.com/loose")
	require.NoError(t, err)
	assert.Equal(t, Module{Path: "example.com/loose", Root: dir}, module)

	// the rest needs a temporary directory outside any module
	if _, err := utils.NewGoModParser(utils.NewFileReader()).FindGoModFile(dir); err == nil {
		t.Skip("a go.mod exists above the temporary directory")
	}
	_, err = resolver.Resolve(dir, "")
	var genErr *models.GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, models.ErrorTypeModule, genErr.Type)
	assert.Contains(t, genErr.Suggestions, "Try specifying -module explicitly")
}

func TestModuleResolverFromWorkingDirectory(t *testing.T) {
	root := tempDir(t)
	writeFiles(t, root, map[string]string{"go.mod": "module example.com/app\n"})
	t.Chdir(root)

	module, err := NewModuleResolver(utils.NewFileReader()).ResolveFromWorkingDirectory("")
	require.NoError(t, err)
	assert.Equal(t, Module{Path: "example.com/app", Root: root}, module)
}
