package main

import (
	"errors"
	"os"

	html2video "github.com/alnah/go-html2video"
	"github.com/alnah/go-html2video/internal/config"
	"github.com/alnah/go-html2video/internal/yamlutil"
)

// Exit codes for the html2video CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or request
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Chrome, page load, or frame capture errors
	ExitEncoder = 5 // ffmpeg missing or failing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Encoder errors (exit 5). Checked before browser errors because
	// encoding failures surface through the capture phase.
	if errors.Is(err, html2video.ErrEncoderNotFound) ||
		errors.Is(err, html2video.ErrEncoderStart) ||
		errors.Is(err, html2video.ErrEncode) ||
		errors.Is(err, html2video.ErrMerge) {
		return ExitEncoder
	}

	// Browser errors (exit 4)
	if errors.Is(err, html2video.ErrBrowserConnect) ||
		errors.Is(err, html2video.ErrPageCreate) ||
		errors.Is(err, html2video.ErrPageLoad) ||
		errors.Is(err, html2video.ErrHook) ||
		errors.Is(err, html2video.ErrSelectorNotFound) ||
		errors.Is(err, html2video.ErrFrameCapture) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoHTMLFiles) ||
		errors.Is(err, ErrReadVarsFile) ||
		errors.Is(err, ErrCreateOutputDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, html2video.ErrConfiguration) ||
		errors.Is(err, yamlutil.ErrNotScalar) ||
		errors.Is(err, yamlutil.ErrInputTooLarge) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidLogSetting) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
