package html2video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-html2video/internal/fileutil"
)

// Converter orchestrates the HTML-to-video pipeline: resolve, capture,
// then an optional audio merge. Create with NewConverter, call Convert for
// each request, and Close when done.
//
// A Converter owns at most one browser. Convert may be called from several
// goroutines; each call opens its own page.
type Converter struct {
	capturer    Capturer
	merger      Merger
	logger      *slog.Logger
	timeout     time.Duration
	ffmpegBin   string
	browserOpts browserOptions

	// fileExists is replaced in tests.
	fileExists func(string) bool
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithLogger, WithFFmpegPath).
// The browser is not launched until the first conversion.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		logger:     slog.New(slog.DiscardHandler),
		timeout:    defaultTimeout,
		fileExists: fileutil.FileExists,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.capturer == nil {
		c.capturer = newRodCapturer(newRodBrowser(c.browserOpts), c.ffmpegBin, c.timeout, c.logger)
	}
	if c.merger == nil {
		c.merger = newFFmpegMerger(c.ffmpegBin)
	}

	return c
}

// Convert runs the pipeline for req and returns the final artifact.
// Errors wrap ErrConfiguration, ErrCapture or ErrMerge, or are the
// context's error when ctx ends first.
// Internal panics are recovered and reported as a failure of the phase
// that was running.
func (c *Converter) Convert(ctx context.Context, req Request) (result *Result, err error) {
	phase := ErrConfiguration
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: internal error: %v", phase, r)
		}
	}()

	start := time.Now()

	cfg, err := Resolve(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := c.logger.With("output", cfg.OutputPath)
	log.Info("capture started", "config", cfg.String(), "frames", cfg.FrameCount())

	phase = ErrCapture
	capturePath, err := c.capturer.Capture(ctx, cfg)
	if err != nil {
		if isContextErr(ctx, err) {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	log.Info("capture finished", "path", capturePath)

	res := &Result{Path: capturePath, CapturePath: capturePath}

	// The audio file is checked now rather than at resolve time; if it
	// disappeared in between, the conversion proceeds without audio.
	if c.shouldMerge(cfg) {
		out := AudioOutputPath(capturePath)
		log.Info("audio merge started", "audio", cfg.AudioPath)

		phase = ErrMerge

		merged, err := c.merger.Merge(ctx, capturePath, cfg.AudioPath, out)
		if err != nil {
			if isContextErr(ctx, err) {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %w", ErrMerge, err)
		}
		res.Path = merged
		res.AudioMerged = true
		log.Info("audio merge finished", "path", merged)
	} else if cfg.AudioPath != "" {
		log.Debug("audio merge skipped", "audio", cfg.AudioPath, "format", cfg.Format.String())
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// shouldMerge reports whether the merge phase runs for cfg.
func (c *Converter) shouldMerge(cfg *ResolvedConfig) bool {
	return cfg.Format.SupportsAudio() && cfg.AudioPath != "" && c.fileExists(cfg.AudioPath)
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if closer, ok := c.capturer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// isContextErr reports whether err was caused by ctx ending.
func isContextErr(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
