package html2video

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Capture defaults applied to zero-valued request fields.
const (
	DefaultWidth    = 800
	DefaultHeight   = 3000
	DefaultFPS      = 60
	DefaultDuration = 15 * time.Second
)

// Capture limits. Larger values are rejected by Resolve.
const (
	MaxDimension = 16384
	MaxFPS       = 240
	MaxDuration  = 10 * time.Minute
)

// DefaultOutputBase is the output name used when a request has none.
const DefaultOutputBase = "output"

// Source identifies the document to capture.
// Exactly one of Path and HTML must be set.
type Source struct {
	Path string // local path or file://, http://, https:// URI
	HTML string // inline markup
}

// Validate checks that the source is unambiguous.
func (s Source) Validate() error {
	hasPath := strings.TrimSpace(s.Path) != ""
	hasHTML := strings.TrimSpace(s.HTML) != ""
	switch {
	case hasPath && hasHTML:
		return ErrAmbiguousSource
	case !hasPath && !hasHTML:
		return ErrNoSource
	}
	return nil
}

// IsInline reports whether the source carries inline markup.
func (s Source) IsInline() bool {
	return strings.TrimSpace(s.HTML) != ""
}

// Request is a loosely-typed conversion request.
// Zero values select defaults. A Request is never modified by the pipeline.
type Request struct {
	Source    Source
	Format    string            // "mp4", "webm", "gif"; empty = mp4
	Output    string            // output file name; extension is corrected to match Format
	Width     int               // viewport width in pixels
	Height    int               // viewport height in pixels
	FPS       int               // frames per second
	Duration  time.Duration     // capture window
	Selector  string            // CSS selector of the element to capture; empty = viewport
	Variables map[string]string // CSS custom properties set before capture
	AudioPath string            // audio track to merge; ignored for gif
}

// ResolvedConfig is the fully-defaulted capture configuration for one conversion.
type ResolvedConfig struct {
	Source      Source
	URL         string // navigation target for path sources; empty for inline sources
	Format      Format
	OutputPath  string
	Width       int
	Height      int
	FPS         int
	Duration    time.Duration
	Selector    string
	Variables   map[string]string
	AudioPath   string
	EncodeArgs  []string
	Transparent bool
	Hook        PreCaptureHook
}

// FrameCount returns the number of frames captured over the window.
func (c *ResolvedConfig) FrameCount() int {
	n := int(c.Duration.Seconds()*float64(c.FPS) + 0.5)
	if n < 1 {
		return 1
	}
	return n
}

// FrameInterval returns the virtual time between two frames.
func (c *ResolvedConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// String summarises the configuration for logs.
func (c *ResolvedConfig) String() string {
	return fmt.Sprintf("%s %dx%d@%dfps %s -> %s", c.Format, c.Width, c.Height, c.FPS, c.Duration, c.OutputPath)
}

// Result describes a finished conversion.
type Result struct {
	Path        string        // final artifact; the _audio variant when audio was merged
	CapturePath string        // artifact written by the capture phase
	AudioMerged bool          // true when the merge phase ran
	Elapsed     time.Duration // wall time of the whole pipeline
}

// cloneVariables copies vars so the resolved config never aliases the request.
func cloneVariables(vars map[string]string) map[string]string {
	if len(vars) == 0 {
		return map[string]string{}
	}
	return maps.Clone(vars)
}
