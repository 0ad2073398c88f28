package html2video

import (
	"errors"
	"fmt"
)

// Phase errors. Every error returned by Converter.Convert wraps exactly one
// of these, so callers can tell which phase failed with errors.Is. The one
// exception is cancellation: when ctx ends first, Convert returns ctx.Err()
// unwrapped.
var (
	ErrConfiguration = errors.New("invalid conversion request")
	ErrCapture       = errors.New("capture failed")
	ErrMerge         = errors.New("audio merge failed")
)

// Request validation errors. Each wraps ErrConfiguration.
var (
	ErrNoSource          = fmt.Errorf("%w: no HTML file or content provided", ErrConfiguration)
	ErrAmbiguousSource   = fmt.Errorf("%w: both HTML file and content provided", ErrConfiguration)
	ErrInvalidFormat     = fmt.Errorf("%w: invalid format", ErrConfiguration)
	ErrInvalidDimensions = fmt.Errorf("%w: invalid dimensions", ErrConfiguration)
	ErrInvalidFPS        = fmt.Errorf("%w: invalid fps", ErrConfiguration)
	ErrInvalidDuration   = fmt.Errorf("%w: invalid duration", ErrConfiguration)
	ErrInvalidVariable   = fmt.Errorf("%w: invalid variable", ErrConfiguration)
)

// Capture service errors.
var (
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrHook             = errors.New("pre-capture hook failed")
	ErrSelectorNotFound = errors.New("selector matched no element")
	ErrFrameCapture     = errors.New("frame capture failed")
)

// Encoder errors.
var (
	ErrEncoderNotFound = errors.New("ffmpeg not found")
	ErrEncoderStart    = errors.New("failed to start encoder")
	ErrEncode          = errors.New("encoding failed")
)
