// Package ffmpeg runs the ffmpeg binary: one-shot invocations and
// long-running encoders fed through stdin.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is looked up in PATH when no explicit binary is configured.
const DefaultBinary = "ffmpeg"

// ErrNotFound is returned when the ffmpeg binary cannot be located.
var ErrNotFound = errors.New("ffmpeg binary not found")

// maxDetail caps the stderr excerpt attached to errors.
const maxDetail = 2048

// commonArgs precede every invocation: overwrite output, errors only.
var commonArgs = []string{"-y", "-hide_banner", "-loglevel", "error"}

// Resolve returns the absolute path of the ffmpeg binary.
// An empty bin resolves DefaultBinary from PATH.
func Resolve(bin string) (string, error) {
	bin = strings.TrimSpace(bin)
	if bin == "" {
		bin = DefaultBinary
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrNotFound, bin, err)
	}
	return path, nil
}

// Run executes ffmpeg with args and waits for it to exit.
// On failure the error carries ffmpeg's trimmed stderr.
func Run(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, withCommonArgs(args)...) // #nosec G204 -- binary and args built by this module
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s", err, detail(output))
	}
	return nil
}

// Version returns the first line of `ffmpeg -version`.
func Version(ctx context.Context, bin string) (string, error) {
	out, err := exec.CommandContext(ctx, bin, "-version").Output() // #nosec G204 -- resolved binary
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

func withCommonArgs(args []string) []string {
	full := make([]string, 0, len(commonArgs)+len(args))
	full = append(full, commonArgs...)
	return append(full, args...)
}

// detail trims ffmpeg output to something fit for an error message.
func detail(output []byte) string {
	s := strings.TrimSpace(string(bytes.ToValidUTF8(output, nil)))
	if len(s) > maxDetail {
		s = "..." + s[len(s)-maxDetail:]
	}
	if s == "" {
		return "no output"
	}
	return s
}
