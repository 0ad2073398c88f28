package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/alnah/go-html2video/internal/process"
)

// Pipe is a running ffmpeg process reading its input from stdin.
type Pipe struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr lockedBuffer

	mu     sync.Mutex
	closed bool
}

// lockedBuffer collects stderr while the process is still writing to it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

// Start launches ffmpeg with args; "pipe:0" in args refers to the
// returned Pipe. The process is killed if ctx is canceled.
func Start(ctx context.Context, bin string, args ...string) (*Pipe, error) {
	cmd := exec.CommandContext(ctx, bin, withCommonArgs(args)...) // #nosec G204 -- binary and args built by this module
	process.Isolate(cmd)
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			process.KillProcessGroup(cmd.Process.Pid)
		}
		return nil
	}

	p := &Pipe{cmd: cmd}
	cmd.Stderr = &p.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening ffmpeg stdin: %w", err)
	}
	p.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

// Write sends raw input bytes (for example one encoded frame) to ffmpeg.
func (p *Pipe) Write(b []byte) (int, error) {
	n, err := p.stdin.Write(b)
	if err != nil {
		return n, fmt.Errorf("writing to ffmpeg: %w: %s", err, detail(p.stderr.Bytes()))
	}
	return n, nil
}

// Close signals end of input and waits for ffmpeg to finish writing its output.
func (p *Pipe) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	closeErr := p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %s", err, detail(p.stderr.Bytes()))
	}
	if closeErr != nil && !errors.Is(closeErr, io.ErrClosedPipe) {
		return fmt.Errorf("closing ffmpeg stdin: %w", closeErr)
	}
	return nil
}

// Abort kills ffmpeg and its children and reaps the process.
// The partially written output is left for the caller to remove.
func (p *Pipe) Abort() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		process.KillProcessGroup(p.cmd.Process.Pid)
	}
	_ = p.cmd.Wait()
}
