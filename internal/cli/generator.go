package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/extractgen/internal/generator"
	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/parser"
	"github.com/toyz/extractgen/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	config      Config
	scanner     *DirectoryScanner
	resolver    *ModuleResolver
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary

	// newCodeGenerator builds the per-package pipeline; tests replace it
	newCodeGenerator func() generator.CodeGenerator
}

// NewGenerator creates a CLI generator for config, printing through diagnostics
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	files := utils.NewFileReader()
	g := &Generator{
		config:      config,
		scanner:     NewDirectoryScanner(config.Output, config.Exclude...),
		resolver:    NewModuleResolver(files),
		reporter:    NewDiagnosticReporter(diagnostics.ErrorWriter(), files, diagnostics.ColorsEnabled(), config.Verbose),
		diagnostics: diagnostics,
	}
	g.newCodeGenerator = func() generator.CodeGenerator {
		return generator.NewGenerator(generator.WithOutputName(g.config.Output))
	}
	return g
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// ReportError renders an error returned by Run
func (g *Generator) ReportError(err error) {
	g.reporter.ReportError(err)
}

// packageResult is what generation produced for one package directory
type packageResult struct {
	dir          string
	importPath   string
	declarations int
	file         *models.GeneratedFile
	diags        models.Diagnostics
}

// Run generates every package under the configured directories. Packages
// are processed concurrently; results are written in directory order once
// all of them are done. Diagnostics come back as a *models.DiagnosticError
// after every clean package has been written.
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}
	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning directories: %v", g.config.Directories)

	g.diagnostics.StartProgress("Resolving module name")
	module, err := g.resolver.ResolveFromWorkingDirectory(g.config.Module)
	g.diagnostics.EndProgress("Resolving module name")
	if err != nil {
		return err
	}
	g.diagnostics.Debug("Resolved module %s at %s", module.Path, module.Root)
	utils.SetLocalPrefix(module.Path)

	g.diagnostics.StartProgress("Scanning directories for Go packages")
	dirs, err := g.scanner.ScanDirectories(g.config.Directories)
	g.diagnostics.EndProgress("Scanning directories for Go packages")
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: "no Go packages found in specified directories",
			Suggestions: []string{
				"Ensure the directories contain Go files",
				"Use the './...' pattern to scan subdirectories",
			},
			Context: map[string]any{"directories": g.config.Directories},
		}
	}
	g.summary.PackagesScanned = len(dirs)
	g.diagnostics.Info("Found %d packages to process", len(dirs))

	g.diagnostics.StartProgress("Generating extractors")
	results := make([]packageResult, len(dirs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.config.Concurrency)
	for i, dir := range dirs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := g.generatePackage(module, dir)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	err = group.Wait()
	g.diagnostics.EndProgress("Generating extractors")
	if err != nil {
		return err
	}

	var all models.Diagnostics
	g.diagnostics.Section("Packages")
	g.diagnostics.Indent()
	for _, result := range results {
		all.Extend(result.diags)
		if err := g.commit(result); err != nil {
			g.diagnostics.Unindent()
			return err
		}
	}
	g.diagnostics.Unindent()

	g.summary.Diagnostics = len(all)
	g.diagnostics.Verbose("Generation finished in %s", time.Since(startTime).Round(time.Millisecond))
	return all.Err()
}

// generatePackage runs the pipeline for one directory. It only touches
// state owned by this call.
func (g *Generator) generatePackage(module Module, dir string) (packageResult, error) {
	result := packageResult{dir: dir}
	if importPath, err := module.ImportPath(dir); err == nil {
		result.importPath = importPath
	} else {
		result.importPath = dir
	}

	p := parser.NewParser()
	p.SkipFile(g.config.Output)
	metadata, err := p.ParseDirectory(dir)
	if err != nil {
		return result, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    dir,
			Message: "failed to parse package",
			Cause:   err,
			Suggestions: []string{
				"Check for syntax errors in Go files",
				"Ensure all files in the directory declare the same package",
			},
			Context: map[string]any{"import_path": result.importPath},
		}
	}
	result.declarations = len(metadata.Declarations)

	file, diags, err := g.newCodeGenerator().GeneratePackage(metadata)
	if err != nil {
		var genErr *models.GeneratorError
		if errors.As(err, &genErr) {
			if genErr.Context == nil {
				genErr.Context = map[string]any{}
			}
			genErr.Context["import_path"] = result.importPath
			return result, genErr
		}
		return result, utils.WrapGenerateError(result.importPath, err)
	}
	result.file = file
	result.diags = diags
	return result, nil
}

// commit writes or removes the generated file of one package
func (g *Generator) commit(result packageResult) error {
	if result.diags.HasErrors() {
		g.diagnostics.List("%s: %d diagnostics, generated file left untouched", result.importPath, len(result.diags))
		return nil
	}

	if result.file == nil {
		if result.declarations == 0 {
			return g.removeStale(result)
		}
		return nil
	}

	g.summary.PackagesGenerated++
	for _, impl := range result.file.Implementations {
		g.summary.Extractors++
		switch impl.Strategy.(type) {
		case *models.DirectStrategy:
			g.summary.DirectStrategies++
		case *models.DelegatedStrategy:
			g.summary.Delegated++
		}
	}
	if g.config.Debug {
		g.dumpStrategies(result)
	}

	written, err := utils.WriteFileIfChanged(result.file.FilePath, result.file.Content, 0o644)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    result.file.FilePath,
			Message: "failed to write generated file",
			Cause:   err,
			Suggestions: []string{
				"Ensure you have write permissions for the package directory",
			},
		}
	}

	g.diagnostics.Item("%s (%d extractors)", result.importPath, len(result.file.Implementations))
	if written {
		g.summary.WrittenFiles = append(g.summary.WrittenFiles, result.file.FilePath)
		g.diagnostics.Written(result.file.FilePath)
	} else {
		g.summary.UnchangedFiles = append(g.summary.UnchangedFiles, result.file.FilePath)
		g.diagnostics.Verbose("%s is up to date", result.file.FilePath)
	}
	return nil
}

// removeStale deletes a generated file left behind after the last annotation
// in its package was removed
func (g *Generator) removeStale(result packageResult) error {
	path := filepath.Join(result.dir, g.config.Output)
	generated, err := utils.IsGeneratedFile(path)
	if err != nil || !generated {
		return err
	}
	if err := os.Remove(path); err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    path,
			Message: "failed to remove stale generated file",
			Cause:   err,
		}
	}
	g.summary.RemovedFiles = append(g.summary.RemovedFiles, path)
	g.diagnostics.List("%s: removed stale %s", result.importPath, g.config.Output)
	return nil
}

var debugDump = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (g *Generator) dumpStrategies(result packageResult) {
	for _, impl := range result.file.Implementations {
		g.diagnostics.Debug("%s.%s strategy:\n%s", result.importPath, impl.TypeName, debugDump.Sdump(impl.Strategy))
	}
}

