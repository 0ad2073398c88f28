package main

// Notes:
// - This file contains test doubles and helpers used across convert tests.
// - These are not functions under test themselves, but supporting infrastructure.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	html2video "github.com/alnah/go-html2video"
	"github.com/alnah/go-html2video/internal/config"
)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// mockConverter records requests and returns a result pointing at the
// requested output. It never touches a browser.
type mockConverter struct {
	mu          sync.Mutex
	calls       []html2video.Request
	convertFunc func(ctx context.Context, req html2video.Request) (*html2video.Result, error)
}

func newMockConverter() *mockConverter {
	return &mockConverter{}
}

func (m *mockConverter) Convert(ctx context.Context, req html2video.Request) (*html2video.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.convertFunc != nil {
		return m.convertFunc(ctx, req)
	}

	format, err := html2video.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	path := html2video.ResolveOutputPath(req.Output, format)
	return &html2video.Result{Path: path, CapturePath: path}, nil
}

func (m *mockConverter) getCalls() []html2video.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]html2video.Request{}, m.calls...)
}

// testPool hands out the same mock converter up to size times.
type testPool struct {
	mock   CLIConverter
	sem    chan CLIConverter
	size   int
	mu     sync.Mutex
	closed bool
}

func newTestPool(mock CLIConverter, size int) *testPool {
	if size < 1 {
		size = 1
	}
	p := &testPool{
		mock: mock,
		sem:  make(chan CLIConverter, size),
		size: size,
	}
	for range size {
		p.sem <- mock
	}
	return p
}

func (p *testPool) Acquire() CLIConverter {
	return <-p.sem
}

func (p *testPool) Release(c CLIConverter) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.sem <- c
}

func (p *testPool) Close() error {
	p.mu.Lock()
	p.closed = true
	close(p.sem)
	p.mu.Unlock()
	return nil
}

func (p *testPool) Size() int {
	return p.size
}

// nilPool simulates a pool whose converters fail to initialize.
type nilPool struct{ size int }

func (p *nilPool) Acquire() CLIConverter  { return nil }
func (p *nilPool) Release(_ CLIConverter) {}
func (p *nilPool) Size() int              { return p.size }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fixedNow is the clock used by tests that check generated names.
var fixedNow = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

// newTestEnv returns an environment writing to buffers.
func newTestEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
	}, &stdout, &stderr
}

// runWithTestPool parses args as the convert command and runs it against mock.
func runWithTestPool(t *testing.T, args []string, mock CLIConverter) (stdout, stderr string, err error) {
	t.Helper()

	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		t.Fatalf("parseConvertFlags(%v) error: %v", args, err)
	}
	cfg := config.DefaultConfig()
	mergeFlags(flags, cfg)

	env, outBuf, errBuf := newTestEnv()
	pool := newTestPool(mock, 2)
	defer pool.Close()

	err = runConvert(context.Background(), positional, flags, cfg, pool, env)
	return outBuf.String(), errBuf.String(), err
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}
