package main

// Notes:
// - parseConvertFlags: we test that each flag group binds to the right field
//   and that positional arguments survive interleaving with flags.
// - Default values are zero so that config and environment can fill them;
//   the zero check guards that contract.

import (
	"errors"
	"maps"
	"slices"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag binding
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults are zero", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseConvertFlags(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
		if f.output != "" || f.workers != 0 || f.timeout != "" {
			t.Errorf("I/O flags not zero: %+v", f)
		}
		if f.capture != (captureFlags{}) {
			t.Errorf("capture flags not zero: %+v", f.capture)
		}
		if f.runtime != (runtimeFlags{}) {
			t.Errorf("runtime flags not zero: %+v", f.runtime)
		}
		if len(f.source.vars) != 0 {
			t.Errorf("vars = %v, want empty", f.source.vars)
		}
	})

	t.Run("all groups", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseConvertFlags([]string{
			"-o", "out", "-w", "2", "-t", "45s",
			"-c", "brand", "-q",
			"-f", "webm", "--width", "1080", "--height", "1920", "--fps", "30",
			"--duration", "5s", "--selector", "#card",
			"--var", "brand-color=#f00", "--var", "accent=blue",
			"--vars-file", "vars.yaml", "--audio", "track.mp3",
			"--ffmpeg", "/usr/bin/ffmpeg", "--chrome", "/usr/bin/chromium", "--no-sandbox",
			"--log-level", "debug", "--log-format", "json",
			"page.html",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !slices.Equal(args, []string{"page.html"}) {
			t.Errorf("args = %v, want [page.html]", args)
		}
		if f.output != "out" || f.workers != 2 || f.timeout != "45s" {
			t.Errorf("I/O flags = %q %d %q", f.output, f.workers, f.timeout)
		}
		if f.common != (commonFlags{config: "brand", quiet: true}) {
			t.Errorf("common = %+v", f.common)
		}
		wantCapture := captureFlags{format: "webm", width: 1080, height: 1920, fps: 30, duration: "5s", selector: "#card"}
		if f.capture != wantCapture {
			t.Errorf("capture = %+v, want %+v", f.capture, wantCapture)
		}
		wantVars := map[string]string{"brand-color": "#f00", "accent": "blue"}
		if !maps.Equal(f.source.vars, wantVars) {
			t.Errorf("vars = %v, want %v", f.source.vars, wantVars)
		}
		if f.source.varsFile != "vars.yaml" || f.source.audioPath != "track.mp3" {
			t.Errorf("source = %+v", f.source)
		}
		wantRuntime := runtimeFlags{ffmpeg: "/usr/bin/ffmpeg", chrome: "/usr/bin/chromium", noSandbox: true, logLevel: "debug", logFormat: "json"}
		if f.runtime != wantRuntime {
			t.Errorf("runtime = %+v, want %+v", f.runtime, wantRuntime)
		}
	})

	t.Run("inline html", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseConvertFlags([]string{"--html", "<h1>Hi</h1>", "-v"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.source.html != "<h1>Hi</h1>" {
			t.Errorf("html = %q", f.source.html)
		}
		if !f.common.verbose {
			t.Error("verbose should be set")
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})

	t.Run("interleaved positionals", func(t *testing.T) {
		t.Parallel()

		_, args, err := parseConvertFlags([]string{"a.html", "-f", "gif", "site/", "https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"a.html", "site/", "https://example.com"}
		if !slices.Equal(args, want) {
			t.Errorf("args = %v, want %v", args, want)
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseConvertFlags([]string{"--help"})
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
	})

	t.Run("invalid int", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseConvertFlags([]string{"--fps", "fast"})
		if err == nil {
			t.Error("expected error for non-numeric --fps")
		}
	})
}
