package fileutil_test

// Notes:
// - TestWriteTempFile_CreateTempError: this test modifies the global TMPDIR
//   environment variable and cannot run in parallel with other tests.
// - The WriteString and Close error branches in WriteTempFile are not tested
//   because triggering disk write failures is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-html2video/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "valid extension html", extension: "html", wantErr: nil},
		{name: "empty extension", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash path traversal", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash path traversal", extension: "..\\windows\\system32", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte injection", extension: "html\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateExtension(%q) unexpected error: %v", tt.extension, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) error = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temp file creation and cleanup
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := "<html><body><h1>Hello</h1></body></html>"
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		t.Fatalf("WriteTempFile() unexpected error: %v", err)
	}

	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path = %q, want .html suffix", path)
	}
	if !strings.HasPrefix(filepath.Base(path), "html2video-") {
		t.Errorf("path = %q, want html2video- prefix", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q, want %q", got, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file should be removed after cleanup, stat err = %v", err)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile("x", "../html")
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("error = %v, want ErrExtensionPathTraversal", err)
	}
	if cleanup != nil {
		t.Error("cleanup should be nil on error")
	}
}

func TestWriteTempFile_CreateTempError(t *testing.T) {
	t.Setenv("TMPDIR", filepath.Join(t.TempDir(), "does-not-exist"))

	_, _, err := fileutil.WriteTempFile("x", "html")
	if err == nil {
		t.Fatal("expected error when temp dir is missing")
	}
	if !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("error = %v, want 'creating temp file'", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular file detection
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(file, []byte("ID3"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file", path: file, want: true},
		{name: "directory", path: dir, want: false},
		{name: "missing file", path: filepath.Join(dir, "missing.mp3"), want: false},
		{name: "empty path", path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsURL - URL detection
// ---------------------------------------------------------------------------

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "https://example.com/banner.html", want: true},
		{input: "http://localhost:8080", want: true},
		{input: "file:///tmp/page.html", want: true},
		{input: "FILE:///tmp/page.html", want: true},
		{input: "/tmp/page.html", want: false},
		{input: "page.html", want: false},
		{input: "ftp://example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsURL(tt.input); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsHTMLFile / TestTrimExt - Path helpers
// ---------------------------------------------------------------------------

func TestIsHTMLFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "index.html", want: true},
		{input: "INDEX.HTM", want: true},
		{input: "dir/page.htm", want: true},
		{input: "notes.md", want: false},
		{input: "html", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsHTMLFile(tt.input); got != tt.want {
				t.Errorf("IsHTMLFile(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "pages/intro.html", want: "intro"},
		{input: "banner", want: "banner"},
		{input: "archive.tar.gz", want: "archive.tar"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.TrimExt(tt.input); got != tt.want {
				t.Errorf("TrimExt(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
