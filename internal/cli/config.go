package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/extractgen/internal/generator"
	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/utils"
)

// DefaultConfigFile is read from the working directory when no -config is given
const DefaultConfigFile = ".extractgen.yaml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories to scan. A trailing "/..." scans recursively.
	Directories []string `yaml:"-"`

	// Output is the generated file name written into each package
	Output string `yaml:"output"`

	// Module overrides the module path read from go.mod
	Module string `yaml:"module"`

	// Concurrency bounds how many packages are generated at once
	Concurrency int `yaml:"concurrency"`

	// Exclude lists directory names skipped while scanning
	Exclude []string `yaml:"exclude"`

	Verbose bool `yaml:"verbose"`
	Quiet   bool `yaml:"quiet"`

	// Debug dumps the selected strategies
	Debug bool `yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Output:      generator.DefaultOutputName,
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// LoadConfig decodes the YAML config at path over base. Keys absent from the
// file keep their value from base. Unknown keys are rejected.
func LoadConfig(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, configError(path, "failed to open config file", err)
	}
	defer f.Close()

	cfg, err := decodeConfig(f, base)
	if err != nil {
		return base, configError(path, "invalid config file", utils.WrapLoadError(filepath.Base(path), err))
	}
	return cfg, nil
}

// LoadDefaultConfig loads DefaultConfigFile from dir if it exists
func LoadDefaultConfig(dir string, base Config) (Config, bool, error) {
	path := filepath.Join(dir, DefaultConfigFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return base, false, nil
	}
	cfg, err := LoadConfig(path, base)
	return cfg, err == nil, err
}

func decodeConfig(r io.Reader, base Config) (Config, error) {
	cfg := base
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, err
	}
	return cfg, nil
}

// Validate checks the merged configuration
func (c Config) Validate() error {
	var problems []string
	if len(c.Directories) == 0 {
		problems = append(problems, "at least one directory is required")
	}
	if c.Output == "" || filepath.Base(c.Output) != c.Output {
		problems = append(problems, fmt.Sprintf("output %q must be a plain file name", c.Output))
	} else if !strings.HasSuffix(c.Output, ".go") || strings.HasSuffix(c.Output, "_test.go") {
		problems = append(problems, fmt.Sprintf("output %q must be a non-test .go file", c.Output))
	}
	if c.Concurrency < 1 {
		problems = append(problems, fmt.Sprintf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.Verbose && c.Quiet {
		problems = append(problems, "verbose and quiet are mutually exclusive")
	}

	if len(problems) == 0 {
		return nil
	}
	return &models.GeneratorError{
		Type:        models.ErrorTypeConfig,
		Message:     strings.Join(problems, "; "),
		Suggestions: []string{"Run extractgen -help for the accepted flags"},
	}
}

func configError(path, message string, err error) error {
	return &models.GeneratorError{
		Type:    models.ErrorTypeConfig,
		File:    path,
		Message: message,
		Cause:   err,
		Suggestions: []string{
			"Check the YAML syntax of the config file",
			"Accepted keys: output, module, concurrency, exclude, verbose, quiet",
		},
	}
}
