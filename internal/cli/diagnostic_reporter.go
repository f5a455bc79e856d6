package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/extractgen/internal/models"
	"github.com/toyz/extractgen/internal/utils"
)

// DiagnosticReporter renders diagnostics and generator errors for people
type DiagnosticReporter struct {
	out     io.Writer
	files   *utils.FileReader
	verbose bool

	errorStyle  *color.Color
	gutterStyle *color.Color
	noteStyle   *color.Color
	boldStyle   *color.Color
	labelStyle  *color.Color
}

// NewDiagnosticReporter creates a reporter writing to out. Source excerpts
// are read through files.
func NewDiagnosticReporter(out io.Writer, files *utils.FileReader, colors, verbose bool) *DiagnosticReporter {
	r := &DiagnosticReporter{
		out:         out,
		files:       files,
		verbose:     verbose,
		errorStyle:  color.New(color.FgRed, color.Bold),
		gutterStyle: color.New(color.FgBlue, color.Bold),
		noteStyle:   color.New(color.FgCyan, color.Bold),
		boldStyle:   color.New(color.Bold),
		labelStyle:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{r.errorStyle, r.gutterStyle, r.noteStyle, r.boldStyle, r.labelStyle} {
		if colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// ReportDiagnostics renders every diagnostic in the order given
func (r *DiagnosticReporter) ReportDiagnostics(diags models.Diagnostics) {
	for _, d := range diags {
		r.Report(d)
	}
}

// Report renders one diagnostic:
//
//	error[E0201]: generics require a delegation target
//	 --> handlers.go:4:16
//	  |
//	4 | type Extractor[T any] struct {
//	  |                ^ type parameter `T` needs `-Via`
//	  = help: ...
func (r *DiagnosticReporter) Report(d models.Diagnostic) {
	r.errorStyle.Fprintf(r.out, "error[%s]", d.Code)
	r.boldStyle.Fprintf(r.out, ": %s\n", d.Message)

	width := gutterWidth(d)
	r.excerpt(width, d.Primary, d.PrimaryLabel, r.errorStyle)
	for _, label := range d.Labels {
		r.excerpt(width, label.Span, label.Message, r.labelStyle)
	}

	pad := strings.Repeat(" ", width)
	for _, note := range d.Notes {
		r.gutterStyle.Fprintf(r.out, "%s = ", pad)
		r.noteStyle.Fprintf(r.out, "%s", note.Kind)
		fmt.Fprintf(r.out, ": %s\n", note.Message)
	}
	fmt.Fprintln(r.out)
}

// ReportSummary closes a run that produced diagnostics
func (r *DiagnosticReporter) ReportSummary(count int) {
	if count == 0 {
		return
	}
	noun := "error"
	if count > 1 {
		noun = "errors"
	}
	r.errorStyle.Fprint(r.out, "error")
	r.boldStyle.Fprintf(r.out, ": could not generate extractors due to %d previous %s\n", count, noun)
}

// excerpt prints the location of span and, when the source is readable, the
// line it covers with a marker underneath
func (r *DiagnosticReporter) excerpt(width int, span models.Span, label string, marker *color.Color) {
	pad := strings.Repeat(" ", width)
	r.gutterStyle.Fprintf(r.out, "%s--> ", pad)
	fmt.Fprintf(r.out, "%s\n", span)

	if r.files == nil || span.File == "" || !span.IsValid() {
		return
	}
	source, ok := r.files.Line(span.File, span.Line)
	if !ok {
		return
	}

	r.gutterStyle.Fprintf(r.out, "%s |\n", pad)
	r.gutterStyle.Fprintf(r.out, "%*d | ", width, span.Line)
	fmt.Fprintf(r.out, "%s\n", source)

	r.gutterStyle.Fprintf(r.out, "%s | ", pad)
	fmt.Fprint(r.out, markerIndent(source, span.Column))
	marker.Fprint(r.out, strings.Repeat("^", span.Width()))
	if label != "" {
		marker.Fprintf(r.out, " %s", label)
	}
	fmt.Fprintln(r.out)
}

// markerIndent reproduces the whitespace before column so tabs line up
func markerIndent(source string, column int) string {
	n := column - 1
	if n > len(source) {
		n = len(source)
	}
	if n < 0 {
		n = 0
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if source[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func gutterWidth(d models.Diagnostic) int {
	maxLine := d.Primary.Line
	for _, label := range d.Labels {
		if label.Span.Line > maxLine {
			maxLine = label.Span.Line
		}
	}
	return len(strconv.Itoa(maxLine))
}

// ReportWarning prints a warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(r.out, "warning")
	r.boldStyle.Fprintf(r.out, ": %s\n", message)
}

// ReportError renders an environment failure. Diagnostics carried by err are
// rendered with Report.
func (r *DiagnosticReporter) ReportError(err error) {
	var diagErr *models.DiagnosticError
	if errors.As(err, &diagErr) {
		r.ReportDiagnostics(diagErr.Diagnostics)
		r.ReportSummary(len(diagErr.Diagnostics))
		return
	}

	var genErr *models.GeneratorError
	if !errors.As(err, &genErr) {
		r.errorStyle.Fprint(r.out, "error")
		r.boldStyle.Fprintf(r.out, ": %s\n", err)
		return
	}
	r.reportGeneratorError(genErr)
}

func (r *DiagnosticReporter) reportGeneratorError(genErr *models.GeneratorError) {
	r.errorStyle.Fprintf(r.out, "error[%s]", strings.ToLower(genErr.Type.String()))
	r.boldStyle.Fprintf(r.out, ": %s\n", genErr.Message)

	if genErr.File != "" {
		location := genErr.File
		if genErr.Line > 0 {
			location = fmt.Sprintf("%s:%d", genErr.File, genErr.Line)
		}
		r.gutterStyle.Fprint(r.out, "  --> ")
		fmt.Fprintf(r.out, "%s\n", location)
	}
	if genErr.Cause != nil {
		r.gutterStyle.Fprint(r.out, "   = ")
		r.noteStyle.Fprint(r.out, "cause")
		fmt.Fprintf(r.out, ": %s\n", genErr.Cause)
	}

	if len(genErr.Context) > 0 {
		keys := make([]string, 0, len(genErr.Context))
		for key := range genErr.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			r.gutterStyle.Fprint(r.out, "   = ")
			r.noteStyle.Fprint(r.out, "note")
			fmt.Fprintf(r.out, ": %s: %v\n", formatContextKey(key), genErr.Context[key])
		}
	}

	for _, suggestion := range genErr.Suggestions {
		r.gutterStyle.Fprint(r.out, "   = ")
		r.noteStyle.Fprint(r.out, "help")
		fmt.Fprintf(r.out, ": %s\n", suggestion)
	}

	if r.verbose && genErr.Cause != nil {
		r.printErrorChain(genErr.Cause)
	}
	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintln(r.out, "   error chain:")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "     %d. %s\n", level, err)
		err = errors.Unwrap(err)
	}
}

// formatContextKey converts snake_case to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesScanned   int
	PackagesGenerated int
	Extractors        int
	DirectStrategies  int
	Delegated         int
	Diagnostics       int
	WrittenFiles      []string
	UnchangedFiles    []string
	RemovedFiles      []string
}

// Stats returns the summary in the form DiagnosticSystem.Summary prints
func (s GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Packages scanned":    s.PackagesScanned,
		"Packages generated":  s.PackagesGenerated,
		"Extractors":          s.Extractors,
		"Direct":              s.DirectStrategies,
		"Delegated":           s.Delegated,
		"Files written":       len(s.WrittenFiles),
		"Files unchanged":     len(s.UnchangedFiles),
		"Stale files removed": len(s.RemovedFiles),
		"Diagnostics":         s.Diagnostics,
	}
}
