package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/toyz/extractgen/internal/cli"
	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("extractgen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		moduleFlag      = flags.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		configFlag      = flags.String("config", "", "Path to a YAML config file (defaults to "+cli.DefaultConfigFile+" if present)")
		outputFlag      = flags.String("output", "", "Name of the generated file in each package (default extract_gen.go)")
		concurrencyFlag = flags.Int("concurrency", 0, "Number of packages generated at once (default GOMAXPROCS)")
		verboseFlag     = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag       = flags.Bool("quiet", false, "Only show errors and diagnostics")
		debugFlag       = flags.Bool("debug", false, "Dump the selected generation strategies")
		cleanFlag       = flags.Bool("clean", false, "Delete generated files from the specified directories")
		helpFlag        = flags.Bool("help", false, "Show help information")
	)
	flags.Usage = func() { usage(flags, stderr) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if *helpFlag {
		flags.Usage()
		return 0
	}

	cfg := cli.DefaultConfig()
	var err error
	if *configFlag != "" {
		cfg, err = cli.LoadConfig(*configFlag, cfg)
	} else {
		cfg, _, err = cli.LoadDefaultConfig(".", cfg)
	}

	// flags override the config file
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "module":
			cfg.Module = *moduleFlag
		case "output":
			cfg.Output = *outputFlag
		case "concurrency":
			cfg.Concurrency = *concurrencyFlag
		case "verbose":
			cfg.Verbose = *verboseFlag
		case "quiet":
			cfg.Quiet = *quietFlag
		}
	})
	cfg.Debug = *debugFlag
	cfg.Directories = flags.Args()

	diagnostics := newDiagnostics(cfg)
	if stdout != io.Writer(os.Stdout) || stderr != io.Writer(os.Stderr) {
		diagnostics.SetOutput(stdout, stderr)
	}

	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		reporter := cli.NewDiagnosticReporter(diagnostics.ErrorWriter(), nil, diagnostics.ColorsEnabled(), cfg.Verbose)
		reporter.ReportError(err)
		return 1
	}

	if *cleanFlag {
		return clean(cfg, diagnostics)
	}

	diagnostics.Header("generating request extractors")
	if cfg.Verbose {
		diagnostics.Section("Configuration")
		diagnostics.Indent()
		diagnostics.List("Target directories: %s", strings.Join(cfg.Directories, ", "))
		diagnostics.List("Output file: %s", cfg.Output)
		diagnostics.List("Concurrency: %d", cfg.Concurrency)
		if cfg.Module != "" {
			diagnostics.List("Custom module: %s", cfg.Module)
		}
		if len(cfg.Exclude) > 0 {
			diagnostics.List("Excluded directories: %s", strings.Join(cfg.Exclude, ", "))
		}
		diagnostics.Unindent()
	}

	generator := cli.NewGenerator(cfg, diagnostics)
	err = generator.Run(ctx)
	summary := generator.GetSummary()
	if err != nil {
		generator.ReportError(err)
		var diagErr *models.DiagnosticError
		if errors.As(err, &diagErr) {
			diagnostics.Summary("Generation finished with errors", summary.Stats())
		}
		return 1
	}

	diagnostics.Summary("Summary", summary.Stats())
	if cfg.Verbose && len(summary.WrittenFiles) > 0 {
		diagnostics.Section("Generated files")
		diagnostics.Indent()
		for _, file := range summary.WrittenFiles {
			diagnostics.List("%s", file)
		}
		diagnostics.Unindent()
	}
	diagnostics.GenerationComplete()
	return 0
}

func newDiagnostics(cfg cli.Config) *utils.DiagnosticSystem {
	switch {
	case cfg.Quiet:
		return utils.NewQuietDiagnostics()
	case cfg.Debug:
		return utils.NewDiagnosticSystem(utils.DiagnosticDebug)
	case cfg.Verbose:
		return utils.NewVerboseDiagnostics()
	default:
		return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
}

func clean(cfg cli.Config, diagnostics *utils.DiagnosticSystem) int {
	diagnostics.StartProgress("Cleaning generated files")
	removed, err := cli.NewCleaner(cfg.Output, cfg.Exclude...).CleanGeneratedFiles(cfg.Directories)
	diagnostics.EndProgress("Cleaning generated files")

	for _, file := range removed {
		diagnostics.List("removed %s", file)
	}
	if err != nil {
		diagnostics.Error("Clean operation failed: %v", err)
		return 1
	}
	diagnostics.Success("Removed %d generated %s files", len(removed), cfg.Output)
	return 0
}

func usage(flags *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: extractgen [options] <directory-paths...>\n\n")
	fmt.Fprintf(w, "Generates Extract methods for Go types annotated with //extract::derive.\n\n")
	fmt.Fprintf(w, "Options:\n")
	flags.PrintDefaults()
	fmt.Fprintf(w, "\nDirectory Patterns:\n")
	fmt.Fprintf(w, "  ./...              Scan current directory and all subdirectories recursively\n")
	fmt.Fprintf(w, "  ./internal/...     Scan internal directory and all its subdirectories\n")
	fmt.Fprintf(w, "  ./api/handlers     Scan only the specific directory (no recursion)\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  extractgen ./...                              # Generate everything\n")
	fmt.Fprintf(w, "  extractgen -output zz_extract.go ./api/...    # Custom output file name\n")
	fmt.Fprintf(w, "  extractgen -verbose -concurrency 4 ./...      # Detailed output, 4 workers\n")
	fmt.Fprintf(w, "  extractgen -clean ./...                       # Delete generated files\n")
	fmt.Fprintf(w, "\nExit status is 1 when any diagnostic or error is reported.\n")
}
