package main

// Notes:
// - printUsage/printConvertUsage: we test that required content strings are
//   present in the output. We don't test exact formatting as that's an
//   implementation detail.
// - runHelp: we test routing to the correct help topic.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestPrintUsage - Main usage output
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	output := buf.String()

	for name := range commands {
		if !strings.Contains(output, name) {
			t.Errorf("printUsage output should list command %q", name)
		}
	}
	if !strings.Contains(output, "Usage: html2video") {
		t.Error("printUsage output should contain the usage line")
	}
}

// ---------------------------------------------------------------------------
// TestPrintConvertUsage - Convert command usage output
// ---------------------------------------------------------------------------

func TestPrintConvertUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printConvertUsage(&buf)
	output := buf.String()

	groups := []string{
		"Input/Output:",
		"Capture:",
		"Variables:",
		"Audio:",
		"Runtime:",
		"Output Control:",
		"Environment:",
	}
	for _, group := range groups {
		if !strings.Contains(output, group) {
			t.Errorf("printConvertUsage output should contain group header %q", group)
		}
	}

	// Every registered flag is documented
	buildConvertFlagSet().VisitAll(func(f *flag.Flag) {
		if !strings.Contains(output, "--"+f.Name) {
			t.Errorf("printConvertUsage output should document --%s", f.Name)
		}
	})

	// Every known environment variable except test-only overrides is documented
	for name := range knownEnvVars {
		if name == envPrefix+"CONTAINER" {
			continue
		}
		if !strings.Contains(output, name) {
			t.Errorf("printConvertUsage output should mention %s", name)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Help topic routing
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, "Commands:", ""},
		{"convert", []string{"convert"}, "Usage: html2video convert", ""},
		{"doctor", []string{"doctor"}, "Usage: html2video doctor", ""},
		{"completion", []string{"completion"}, "Usage: html2video completion", ""},
		{"version", []string{"version"}, "Usage: html2video version", ""},
		{"help", []string{"help"}, "Usage: html2video help", ""},
		{"unknown", []string{"bogus"}, "", "Unknown command: bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv()
			runHelp(tt.args, env)

			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout should contain %q, got %q", tt.wantStdout, stdout.String())
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr should contain %q, got %q", tt.wantStderr, stderr.String())
			}
			if tt.wantStderr == "" && stderr.Len() != 0 {
				t.Errorf("stderr should be empty, got %q", stderr.String())
			}
		})
	}
}
