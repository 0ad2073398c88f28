package html2video

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-html2video/internal/fileutil"
)

// audioSuffix is inserted before the extension of merged artifacts.
const audioSuffix = "_audio"

// Resolve turns a request into a ResolvedConfig.
// It is deterministic and never mutates req.
// All validation errors wrap ErrConfiguration.
func Resolve(req Request) (*ResolvedConfig, error) {
	if err := req.Source.Validate(); err != nil {
		return nil, err
	}

	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d (must be positive)", ErrInvalidDimensions, req.Width, req.Height)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidDimensions, width, height, MaxDimension)
	}
	if format.evenSize() && (width%2 != 0 || height%2 != 0) {
		return nil, fmt.Errorf("%w: %dx%d (%s needs even width and height)", ErrInvalidDimensions, width, height, format)
	}

	fps := req.FPS
	if fps == 0 {
		fps = DefaultFPS
	}
	if fps < 0 || fps > MaxFPS {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidFPS, req.FPS, MaxFPS)
	}

	duration := req.Duration
	if duration == 0 {
		duration = DefaultDuration
	}
	if duration < 0 || duration > MaxDuration {
		return nil, fmt.Errorf("%w: %s (must be between 0s and %s)", ErrInvalidDuration, req.Duration, MaxDuration)
	}

	for name := range req.Variables {
		if strings.TrimSpace(strings.TrimPrefix(name, "--")) == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidVariable)
		}
	}

	cfg := &ResolvedConfig{
		Source:      req.Source,
		Format:      format,
		OutputPath:  ResolveOutputPath(req.Output, format),
		Width:       width,
		Height:      height,
		FPS:         fps,
		Duration:    duration,
		Selector:    strings.TrimSpace(req.Selector),
		Variables:   cloneVariables(req.Variables),
		AudioPath:   strings.TrimSpace(req.AudioPath),
		EncodeArgs:  format.EncodeArgs(),
		Transparent: format.Transparent(),
		Hook:        InjectVariables,
	}

	if !req.Source.IsInline() {
		cfg.URL, err = SourceURL(req.Source.Path)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ResolveOutputPath returns the output path for a format.
// An empty name yields "output.<format>". Otherwise any extension on the
// base name is replaced, so "clip.mov" with webm becomes "clip.webm".
func ResolveOutputPath(name string, format Format) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultOutputBase + format.Extension()
	}
	dir, base := filepath.Split(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = DefaultOutputBase
	}
	return dir + base + format.Extension()
}

// AudioOutputPath returns the merged-artifact path for a capture output:
// "out/clip.mp4" becomes "out/clip_audio.mp4".
func AudioOutputPath(capturePath string) string {
	ext := filepath.Ext(capturePath)
	return strings.TrimSuffix(capturePath, ext) + audioSuffix + ext
}

// SourceURL converts a source path to a URL the browser can navigate to.
// URLs are returned unchanged; local paths become absolute file:// URLs.
func SourceURL(path string) (string, error) {
	path = strings.TrimSpace(path)
	if fileutil.IsURL(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %q: %v", ErrConfiguration, path, err)
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	return "file://" + abs, nil
}
