package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captured(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(level)
	d.SetOutput(&out, &errOut)
	d.SetPlain()
	return d, &out, &errOut
}

func TestDiagnosticLevels(t *testing.T) {
	tests := []struct {
		level    DiagnosticLevel
		wantOut  []string
		wantErr  []string
		unwanted []string
	}{
		{
			level:    DiagnosticError,
			wantErr:  []string{"[ERROR] broken"},
			unwanted: []string{"[WARN]", "[INFO]", "[VERBOSE]", "[DEBUG]"},
		},
		{
			level:    DiagnosticInfo,
			wantOut:  []string{"[INFO] scanning", "[SUCCESS] done"},
			wantErr:  []string{"[ERROR] broken", "[WARN] careful"},
			unwanted: []string{"[VERBOSE]", "[DEBUG]"},
		},
		{
			level:   DiagnosticDebug,
			wantOut: []string{"[VERBOSE] details", "[DEBUG] internals"},
		},
	}

	for _, tt := range tests {
		d, out, errOut := captured(tt.level)
		d.Error("broken")
		d.Warn("careful")
		d.Info("scanning")
		d.Success("done")
		d.Verbose("details")
		d.Debug("internals")

		all := out.String() + errOut.String()
		for _, want := range tt.wantOut {
			assert.Contains(t, out.String(), want)
		}
		for _, want := range tt.wantErr {
			assert.Contains(t, errOut.String(), want)
		}
		for _, unwanted := range tt.unwanted {
			assert.NotContains(t, all, unwanted)
		}
	}
}

func TestDiagnosticSilent(t *testing.T) {
	d, out, errOut := captured(DiagnosticSilent)
	d.Error("broken")
	d.Header("generating")
	d.Summary("Summary", map[string]interface{}{"files": 1})
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestDiagnosticLayout(t *testing.T) {
	d, out, _ := captured(DiagnosticInfo)

	d.Header("generating extractors")
	d.Section("Packages")
	d.Indent()
	d.Item("handlers (2 extractors)")
	d.Written("handlers/extract_gen.go")
	d.Unindent()
	d.Unindent()
	d.List("done")
	d.Summary("Summary", map[string]interface{}{"written": 1, "diagnostics": 0, "packages": 2})

	want := strings.Join([]string{
		"extractgen: generating extractors",
		"Packages:",
		"  ✓ handlers (2 extractors)",
		"  ✏ handlers/extract_gen.go",
		"- done",
		"",
		"Summary",
		"   diagnostics: 0",
		"   packages: 2",
		"   written: 1",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())
}

func TestDiagnosticProgress(t *testing.T) {
	d, out, _ := captured(DiagnosticVerbose)

	d.StartProgress("scan")
	d.EndProgress("scan")
	d.EndProgress("never started")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	assert.Equal(t, "[VERBOSE] scan...", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "[VERBOSE] scan done in "), lines[1])
}
