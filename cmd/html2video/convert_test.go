package main

// Notes:
// - runConvert: exercised end to end against a mock converter pool; no
//   browser or ffmpeg is started. Output files are not written by the mock,
//   so we assert on the requests it received and on printed results.
// - convertBatch: ordering, nil converters, and cancellation.
// - mergeFlags/resolveVariables/buildParams: precedence rules.
// - hintFor: each mapped sentinel yields a non-empty hint.
// These are acceptable gaps: real captures are covered by the library tests.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	html2video "github.com/alnah/go-html2video"
	"github.com/alnah/go-html2video/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunConvert_SingleFile - One HTML file next to its output
// ---------------------------------------------------------------------------

func TestRunConvert_SingleFile(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"intro.html": "<h1>hi</h1>"})
	input := filepath.Join(dir, "intro.html")
	mock := newMockConverter()

	stdout, _, err := runWithTestPool(t, []string{input, "--fps", "30", "--var", "brand=#f00"}, mock)
	if err != nil {
		t.Fatalf("runConvert() error: %v", err)
	}

	calls := mock.getCalls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	req := calls[0]
	if req.Source.Path != input {
		t.Errorf("Source.Path = %q, want %q", req.Source.Path, input)
	}
	if want := filepath.Join(dir, "intro.mp4"); req.Output != want {
		t.Errorf("Output = %q, want %q", req.Output, want)
	}
	if req.FPS != 30 {
		t.Errorf("FPS = %d, want 30", req.FPS)
	}
	if req.Variables["brand"] != "#f00" {
		t.Errorf("Variables = %v, want brand=#f00", req.Variables)
	}
	if !strings.Contains(stdout, "Created "+filepath.Join(dir, "intro.mp4")) {
		t.Errorf("stdout = %q, want Created line", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_Directory - Batch conversion mirrors the input tree
// ---------------------------------------------------------------------------

func TestRunConvert_Directory(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"a.html":       "<p>a</p>",
		"nested/b.htm": "<p>b</p>",
		"notes.txt":    "skip",
	})
	out := filepath.Join(t.TempDir(), "videos")
	mock := newMockConverter()

	stdout, _, err := runWithTestPool(t, []string{dir, "-o", out, "-f", "webm"}, mock)
	if err != nil {
		t.Fatalf("runConvert() error: %v", err)
	}

	calls := mock.getCalls()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}

	outputs := map[string]bool{}
	for _, c := range calls {
		outputs[c.Output] = true
		if c.Format != "webm" {
			t.Errorf("Format = %q, want webm", c.Format)
		}
	}
	for _, want := range []string{
		filepath.Join(out, "a.webm"),
		filepath.Join(out, "nested", "b.webm"),
	} {
		if !outputs[want] {
			t.Errorf("missing output %q in %v", want, outputs)
		}
	}

	if _, err := os.Stat(filepath.Join(out, "nested")); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
	if !strings.Contains(stdout, "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q, want summary", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_Inline - Inline markup gets a time-unique name
// ---------------------------------------------------------------------------

func TestRunConvert_Inline(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	mock := newMockConverter()

	_, _, err := runWithTestPool(t, []string{"--html", "<div>x</div>", "-o", out, "-f", "gif"}, mock)
	if err != nil {
		t.Fatalf("runConvert() error: %v", err)
	}

	calls := mock.getCalls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	req := calls[0]
	if req.Source.HTML != "<div>x</div>" || req.Source.Path != "" {
		t.Errorf("Source = %+v, want inline markup only", req.Source)
	}
	base := filepath.Base(req.Output)
	if !strings.HasPrefix(base, "capture-20260102-150405-") || !strings.HasSuffix(base, ".gif") {
		t.Errorf("Output = %q, want capture-20260102-150405-<id>.gif", req.Output)
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_Errors - Input errors and their exit codes
// ---------------------------------------------------------------------------

func TestRunConvert_Errors(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.html":       "<p></p>",
		"empty/notes.txt": "",
		"doc.md":          "# md",
	})

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{"no input", []string{}, ErrNoInput, ExitIO},
		{"missing file", []string{filepath.Join(dir, "missing.html")}, os.ErrNotExist, ExitIO},
		{"no html files", []string{filepath.Join(dir, "empty")}, ErrNoHTMLFiles, ExitIO},
		{"wrong extension", []string{filepath.Join(dir, "doc.md")}, ErrInvalidExtension, ExitUsage},
		{"inline and file", []string{"--html", "<p></p>", filepath.Join(dir, "page.html")}, html2video.ErrAmbiguousSource, ExitUsage},
		{"invalid format", []string{"-f", "avi", filepath.Join(dir, "page.html")}, config.ErrInvalidValue, ExitUsage},
		{"fps out of range", []string{"--fps", "1000", filepath.Join(dir, "page.html")}, config.ErrInvalidValue, ExitUsage},
		{"missing vars file", []string{"--vars-file", filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "page.html")}, ErrReadVarsFile, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := newMockConverter()
			_, _, err := runWithTestPool(t, tt.args, mock)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if code := exitCodeFor(err); code != tt.wantCode {
				t.Errorf("exitCodeFor() = %d, want %d", code, tt.wantCode)
			}
			if n := len(mock.getCalls()); n != 0 {
				t.Errorf("converter called %d times, want 0", n)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_FailureReportsFirstCause - Exit code follows the failure
// ---------------------------------------------------------------------------

func TestRunConvert_FailureReportsFirstCause(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"page.html": "<p></p>"})
	mock := newMockConverter()
	mock.convertFunc = func(_ context.Context, _ html2video.Request) (*html2video.Result, error) {
		return nil, fmt.Errorf("%w: %w", html2video.ErrCapture, html2video.ErrEncoderNotFound)
	}

	_, stderr, err := runWithTestPool(t, []string{filepath.Join(dir, "page.html")}, mock)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "1 conversion(s) failed") {
		t.Errorf("error = %q, want failure count", err)
	}
	if code := exitCodeFor(err); code != ExitEncoder {
		t.Errorf("exitCodeFor() = %d, want %d", code, ExitEncoder)
	}
	if !strings.Contains(stderr, "FAILED") || !strings.Contains(stderr, "hint:") {
		t.Errorf("stderr = %q, want FAILED line with hint", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Worker pool behavior
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	t.Run("empty input returns nil", func(t *testing.T) {
		t.Parallel()

		if got := convertBatch(context.Background(), newTestPool(newMockConverter(), 1), nil, &conversionParams{}); got != nil {
			t.Errorf("convertBatch() = %v, want nil", got)
		}
	})

	t.Run("results keep job order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		files := make([]FileToConvert, 6)
		for i := range files {
			files[i] = FileToConvert{
				InputPath:  fmt.Sprintf("in%d.html", i),
				OutputPath: filepath.Join(dir, fmt.Sprintf("out%d.mp4", i)),
			}
		}

		results := convertBatch(context.Background(), newTestPool(newMockConverter(), 3), files, &conversionParams{})
		for i, r := range results {
			if r.InputPath != files[i].InputPath {
				t.Errorf("results[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
			if r.Err != nil {
				t.Errorf("results[%d].Err = %v", i, r.Err)
			}
		}
	})

	t.Run("nil converter fails every job", func(t *testing.T) {
		t.Parallel()

		files := []FileToConvert{{InputPath: "a.html", OutputPath: "a.mp4"}, {InputPath: "b.html", OutputPath: "b.mp4"}}
		results := convertBatch(context.Background(), &nilPool{size: 2}, files, &conversionParams{})
		for i, r := range results {
			if !errors.Is(r.Err, ErrServiceInit) {
				t.Errorf("results[%d].Err = %v, want ErrServiceInit", i, r.Err)
			}
		}
	})

	t.Run("canceled context skips conversion", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		mock := newMockConverter()
		files := []FileToConvert{{InputPath: "a.html", OutputPath: "a.mp4"}}
		results := convertBatch(ctx, newTestPool(mock, 1), files, &conversionParams{})
		if !errors.Is(results[0].Err, context.Canceled) {
			t.Errorf("Err = %v, want context.Canceled", results[0].Err)
		}
		if n := len(mock.getCalls()); n != 0 {
			t.Errorf("converter called %d times, want 0", n)
		}
	})

	t.Run("result path reflects audio merge", func(t *testing.T) {
		t.Parallel()

		mock := newMockConverter()
		mock.convertFunc = func(_ context.Context, req html2video.Request) (*html2video.Result, error) {
			return &html2video.Result{Path: html2video.AudioOutputPath(req.Output), CapturePath: req.Output, AudioMerged: true}, nil
		}
		out := filepath.Join(t.TempDir(), "clip.mp4")
		files := []FileToConvert{{InputPath: "a.html", OutputPath: out}}

		results := convertBatch(context.Background(), newTestPool(mock, 1), files, &conversionParams{audioPath: "a.mp3"})
		if results[0].OutputPath != html2video.AudioOutputPath(out) || !results[0].AudioMerged {
			t.Errorf("result = %+v, want merged output", results[0])
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildRequest - Job and shared params map onto a request
// ---------------------------------------------------------------------------

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	params := &conversionParams{
		format:    "webm",
		width:     640,
		height:    480,
		fps:       24,
		duration:  2 * time.Second,
		selector:  "#card",
		variables: map[string]string{"gap": "4px"},
		audioPath: "music.mp3",
	}
	req := buildRequest(FileToConvert{InputPath: "a.html", OutputPath: "out/a.webm"}, params)

	want := html2video.Request{
		Source:    html2video.Source{Path: "a.html"},
		Format:    "webm",
		Output:    "out/a.webm",
		Width:     640,
		Height:    480,
		FPS:       24,
		Duration:  2 * time.Second,
		Selector:  "#card",
		Variables: params.variables,
		AudioPath: "music.mp3",
	}
	if fmt.Sprint(req) != fmt.Sprint(want) {
		t.Errorf("buildRequest() = %+v, want %+v", req, want)
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags override config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Output.Format = "gif"
	cfg.Capture.Width = 100
	cfg.Capture.Selector = "#from-config"
	cfg.Encoder.FFmpegPath = "/opt/ffmpeg"

	flags, _, err := parseConvertFlags([]string{
		"-f", "webm", "--width", "320", "--duration", "3s",
		"--audio", "a.mp3", "--chrome", "/usr/bin/chromium", "--no-sandbox",
		"--log-level", "debug",
	})
	if err != nil {
		t.Fatalf("parseConvertFlags() error: %v", err)
	}
	mergeFlags(flags, cfg)

	checks := []struct {
		name, got, want string
	}{
		{"format", cfg.Output.Format, "webm"},
		{"duration", cfg.Capture.Duration, "3s"},
		{"selector kept", cfg.Capture.Selector, "#from-config"},
		{"audio", cfg.Audio.Path, "a.mp3"},
		{"chrome", cfg.Browser.Bin, "/usr/bin/chromium"},
		{"ffmpeg kept", cfg.Encoder.FFmpegPath, "/opt/ffmpeg"},
		{"log level", cfg.Log.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
	if cfg.Capture.Width != 320 {
		t.Errorf("width = %d, want 320", cfg.Capture.Width)
	}
	if !cfg.Browser.NoSandbox {
		t.Error("NoSandbox = false, want true")
	}
}

// ---------------------------------------------------------------------------
// TestResolveVariables - config < vars file < --var
// ---------------------------------------------------------------------------

func TestResolveVariables(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"vars.yaml":   "gap: 4px\naccent: blue\nopacity: 0.5\n",
		"nested.yaml": "theme:\n  accent: red\n",
	})

	cfg := config.DefaultConfig()
	cfg.Variables = map[string]string{"gap": "1px", "font": "serif"}

	t.Run("layers in order", func(t *testing.T) {
		t.Parallel()

		got, err := resolveVariables(cfg, filepath.Join(dir, "vars.yaml"), map[string]string{"accent": "green"})
		if err != nil {
			t.Fatalf("resolveVariables() error: %v", err)
		}
		want := map[string]string{"gap": "4px", "font": "serif", "accent": "green", "opacity": "0.5"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("resolveVariables() = %v, want %v", got, want)
		}
		if cfg.Variables["gap"] != "1px" {
			t.Error("config variables were mutated")
		}
	})

	t.Run("nested mapping rejected", func(t *testing.T) {
		t.Parallel()

		_, err := resolveVariables(cfg, filepath.Join(dir, "nested.yaml"), nil)
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("error = %v, want usage error", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Config source selection
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"cfg.yaml": "capture:\n  fps: 24\n",
	})

	t.Run("no name uses fallback", func(t *testing.T) {
		t.Parallel()

		fallback := config.DefaultConfig()
		got, err := loadConfig("", &envConfig{}, fallback)
		if err != nil || got != fallback {
			t.Errorf("loadConfig() = %p, %v; want fallback", got, err)
		}
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Parallel()

		got, err := loadConfig(filepath.Join(dir, "cfg.yaml"), &envConfig{ConfigPath: filepath.Join(dir, "other.yaml")}, nil)
		if err != nil {
			t.Fatalf("loadConfig() error: %v", err)
		}
		if got.Capture.FPS != 24 {
			t.Errorf("FPS = %d, want 24", got.Capture.FPS)
		}
	})

	t.Run("missing config has hint", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfig(filepath.Join(dir, "missing.yaml"), &envConfig{}, nil)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "hint:") {
			t.Errorf("error = %q, want hint", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewLogger - Level selection from flags
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantDebug bool
		wantInfo  bool
	}{
		{"config default is info", nil, false, true},
		{"verbose enables debug", []string{"-v"}, true, true},
		{"quiet keeps errors only", []string{"-q"}, false, false},
		{"explicit level wins over verbose", []string{"-v", "--log-level", "warn"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, _, err := parseConvertFlags(tt.args)
			if err != nil {
				t.Fatalf("parseConvertFlags() error: %v", err)
			}
			cfg := config.DefaultConfig()
			mergeFlags(flags, cfg)
			env, _, _ := newTestEnv()

			logger, err := newLogger(flags, cfg, env)
			if err != nil {
				t.Fatalf("newLogger() error: %v", err)
			}
			ctx := context.Background()
			if got := logger.Enabled(ctx, -4); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, 0); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
		})
	}

	t.Run("invalid format is a usage error", func(t *testing.T) {
		t.Parallel()

		flags, _, _ := parseConvertFlags([]string{"--log-format", "xml"})
		cfg := config.DefaultConfig()
		mergeFlags(flags, cfg)
		env, _, _ := newTestEnv()

		_, err := newLogger(flags, cfg, env)
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("error = %v, want usage error", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints per failure
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		format   string
		wantHint bool
	}{
		{"encoder missing", html2video.ErrEncoderNotFound, "mp4", true},
		{"selector", fmt.Errorf("%w: %w", html2video.ErrCapture, html2video.ErrSelectorNotFound), "mp4", true},
		{"merge", html2video.ErrMerge, "mp4", true},
		{"encode mp4", html2video.ErrEncode, "mp4", true},
		{"encode gif", html2video.ErrEncode, "gif", false},
		{"output dir", ErrCreateOutputDir, "mp4", true},
		{"timeout", context.DeadlineExceeded, "mp4", true},
		{"unrelated", errors.New("boom"), "mp4", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err, tt.format)
			if (got != "") != tt.wantHint {
				t.Errorf("hintFor(%v) = %q, wantHint %v", tt.err, got, tt.wantHint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPrintResultsWithWriter - Result output modes
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.html", OutputPath: "a.mp4", Duration: 1500 * time.Millisecond},
		{InputPath: "b.html", OutputPath: "b_audio.mp4", AudioMerged: true, Duration: time.Second},
		{InputPath: "c.html", Err: html2video.ErrSelectorNotFound},
	}

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := newTestEnv()
		failed := printResultsWithWriter(results, false, false, "mp4", env)
		if failed != 1 {
			t.Errorf("failed = %d, want 1", failed)
		}
		for _, want := range []string{"Created a.mp4", "Created b_audio.mp4", "2 succeeded, 1 failed"} {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("stdout missing %q: %q", want, stdout.String())
			}
		}
		if !strings.Contains(stderr.String(), "FAILED c.html") {
			t.Errorf("stderr = %q, want FAILED line", stderr.String())
		}
	})

	t.Run("quiet only prints failures", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := newTestEnv()
		printResultsWithWriter(results, true, false, "mp4", env)
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q, want empty", stdout.String())
		}
		if !strings.Contains(stderr.String(), "FAILED c.html") {
			t.Errorf("stderr = %q, want FAILED line", stderr.String())
		}
	})

	t.Run("verbose prints a table", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := newTestEnv()
		printResultsWithWriter(results, false, true, "mp4", env)
		out := stdout.String()
		for _, want := range []string{"Input", "a.html", "merged", "failed", "1.5s"} {
			if !strings.Contains(out, want) {
				t.Errorf("stdout missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Created") {
			t.Errorf("verbose output should not contain Created lines:\n%s", out)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBatchError - Message and unwrap
// ---------------------------------------------------------------------------

func TestBatchError(t *testing.T) {
	t.Parallel()

	err := &batchError{failed: 2, first: html2video.ErrPageLoad}
	if err.Error() != "2 conversion(s) failed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, html2video.ErrPageLoad) {
		t.Error("batchError should unwrap to the first failure")
	}
	if exitCodeFor(err) != ExitBrowser {
		t.Errorf("exitCodeFor() = %d, want %d", exitCodeFor(err), ExitBrowser)
	}
}
