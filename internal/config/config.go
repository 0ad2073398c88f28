package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	html2video "github.com/alnah/go-html2video"
	"github.com/alnah/go-html2video/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDir is the directory name under the user config directory.
const appDir = "go-html2video"

// Field limits.
const (
	MaxPathLength     = 4096
	MaxSelectorLength = 1024
	MaxVariables      = 256
	MaxVariableName   = 128
	MaxVariableValue  = 4096
	MaxDimension      = html2video.MaxDimension
	MaxFPS            = html2video.MaxFPS
	MaxDuration       = html2video.MaxDuration
)

// Config holds all configuration for conversions run from the CLI.
// Zero values mean "use the library default".
type Config struct {
	Output    OutputConfig      `yaml:"output"`
	Capture   CaptureConfig     `yaml:"capture"`
	Variables map[string]string `yaml:"variables"`
	Audio     AudioConfig       `yaml:"audio"`
	Browser   BrowserConfig     `yaml:"browser"`
	Encoder   EncoderConfig     `yaml:"encoder"`
	Log       LogConfig         `yaml:"log"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	Format     string `yaml:"format"`     // mp4, webm, gif
}

// CaptureConfig defines the capture window.
type CaptureConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	FPS      int    `yaml:"fps"`
	Duration string `yaml:"duration"` // Go duration, e.g. "15s", "1m30s"
	Selector string `yaml:"selector"`
}

// AudioConfig defines the audio track merged into every output.
type AudioConfig struct {
	Path string `yaml:"path"`
}

// BrowserConfig defines how Chrome is launched.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`
	NoSandbox bool   `yaml:"noSandbox"`
	Timeout   string `yaml:"timeout"` // page load timeout, e.g. "30s"
}

// EncoderConfig locates ffmpeg.
type EncoderConfig struct {
	FFmpegPath string `yaml:"ffmpegPath"`
}

// LogConfig defines log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // auto, text, json
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if _, err := html2video.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format %q (must be one of %s)",
			ErrInvalidValue, c.Output.Format, strings.Join(html2video.FormatNames(), ", "))
	}

	if err := validateRange("capture.width", c.Capture.Width, MaxDimension); err != nil {
		return err
	}
	if err := validateRange("capture.height", c.Capture.Height, MaxDimension); err != nil {
		return err
	}
	if err := validateRange("capture.fps", c.Capture.FPS, MaxFPS); err != nil {
		return err
	}
	duration, err := parseDuration("capture.duration", c.Capture.Duration)
	if err != nil {
		return err
	}
	if duration > MaxDuration {
		return fmt.Errorf("%w: capture.duration %s exceeds max %s", ErrInvalidValue, duration, MaxDuration)
	}
	if err := validateFieldLength("capture.selector", c.Capture.Selector, MaxSelectorLength); err != nil {
		return err
	}

	if len(c.Variables) > MaxVariables {
		return fmt.Errorf("%w: variables (%d entries, max %d)", ErrInvalidValue, len(c.Variables), MaxVariables)
	}
	for name, value := range c.Variables {
		if strings.TrimSpace(strings.TrimPrefix(name, "--")) == "" {
			return fmt.Errorf("%w: variables: empty name", ErrInvalidValue)
		}
		if err := validateFieldLength("variables."+name, name, MaxVariableName); err != nil {
			return err
		}
		if err := validateFieldLength("variables."+name, value, MaxVariableValue); err != nil {
			return err
		}
	}

	if err := validateFieldLength("audio.path", c.Audio.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if _, err := parseDuration("browser.timeout", c.Browser.Timeout); err != nil {
		return err
	}
	if err := validateFieldLength("encoder.ffmpegPath", c.Encoder.FFmpegPath, MaxPathLength); err != nil {
		return err
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}
	if c.Log.Format != "" {
		switch strings.ToLower(c.Log.Format) {
		case "auto", "text", "json":
		default:
			return fmt.Errorf("%w: log.format %q (must be auto, text, or json)", ErrInvalidValue, c.Log.Format)
		}
	}

	return nil
}

// CaptureDuration returns capture.duration, or 0 when unset.
func (c *Config) CaptureDuration() time.Duration {
	d, _ := parseDuration("capture.duration", c.Capture.Duration)
	return d
}

// BrowserTimeout returns browser.timeout, or 0 when unset.
func (c *Config) BrowserTimeout() time.Duration {
	d, _ := parseDuration("browser.timeout", c.Browser.Timeout)
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateRange accepts 0 (unset) or 1..maxValue.
func validateRange(fieldName string, value, maxValue int) error {
	if value < 0 || value > maxValue {
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalidValue, fieldName, maxValue, value)
	}
	return nil
}

// parseDuration parses an optional positive duration.
func parseDuration(fieldName, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, fieldName, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return d, nil
}

// DefaultConfig returns a neutral configuration where every value falls
// back to the library defaults.
func DefaultConfig() *Config {
	return &Config{
		Variables: map[string]string{},
		Log:       LogConfig{Level: "info", Format: "auto"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if cfg.Variables == nil {
		cfg.Variables = map[string]string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in SearchPaths order.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// SearchPaths returns the locations tried for a config name.
// Extensions in order: .yaml, .yml.
// Locations in order: current directory, <user config dir>/go-html2video/.
func SearchPaths(name string) []string {
	paths := []string{name + ".yaml", name + ".yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, appDir, name+".yaml"),
			filepath.Join(dir, appDir, name+".yml"))
	}
	return paths
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
