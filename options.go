package html2video

import (
	"log/slog"
	"time"
)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// Option configures a Converter.
type Option func(*Converter)

// WithTimeout sets the page load timeout applied when the caller's context
// has no deadline. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for phase boundaries and capture details.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFFmpegPath sets the ffmpeg binary. Empty means look it up on PATH.
func WithFFmpegPath(path string) Option {
	return func(c *Converter) {
		c.ffmpegBin = path
	}
}

// WithBrowserBin sets the Chrome binary. Empty means ROD_BROWSER_BIN or the
// browser managed by rod.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.browserOpts.bin = path
	}
}

// WithNoSandbox disables the Chrome sandbox. Needed in most containers.
func WithNoSandbox(noSandbox bool) Option {
	return func(c *Converter) {
		c.browserOpts.noSandbox = noSandbox
	}
}

// WithCapturer replaces the headless Chrome capture service.
func WithCapturer(capt Capturer) Option {
	return func(c *Converter) {
		c.capturer = capt
	}
}

// WithMerger replaces the ffmpeg audio merge service.
func WithMerger(m Merger) Option {
	return func(c *Converter) {
		c.merger = m
	}
}
