package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-html2video/internal/config"
)

// envPrefix namespaces every environment variable read by the CLI.
const envPrefix = "HTML2VIDEO_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // HTML2VIDEO_CONFIG: config file path
	Timeout    time.Duration // HTML2VIDEO_TIMEOUT: page load timeout
	FFmpeg     string        // HTML2VIDEO_FFMPEG: ffmpeg binary
	Chrome     string        // HTML2VIDEO_CHROME: Chrome binary

	// Tier 2 - Output
	OutputDir string // HTML2VIDEO_OUTPUT_DIR: default output directory
	Format    string // HTML2VIDEO_FORMAT: mp4, webm, gif
	Audio     string // HTML2VIDEO_AUDIO: audio track path

	// Tier 3 - Capture and runtime
	FPS       int    // HTML2VIDEO_FPS: frames per second
	Duration  string // HTML2VIDEO_DURATION: capture window
	Workers   int    // HTML2VIDEO_WORKERS: parallel workers
	LogLevel  string // HTML2VIDEO_LOG_LEVEL: debug, info, warn, error
	LogFormat string // HTML2VIDEO_LOG_FORMAT: auto, text, json
}

// knownEnvVars lists valid HTML2VIDEO_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"HTML2VIDEO_CONFIG":  true,
	"HTML2VIDEO_TIMEOUT": true,
	"HTML2VIDEO_FFMPEG":  true,
	"HTML2VIDEO_CHROME":  true,
	// Tier 2 - Output
	"HTML2VIDEO_OUTPUT_DIR": true,
	"HTML2VIDEO_FORMAT":     true,
	"HTML2VIDEO_AUDIO":      true,
	// Tier 3 - Capture and runtime
	"HTML2VIDEO_FPS":        true,
	"HTML2VIDEO_DURATION":   true,
	"HTML2VIDEO_WORKERS":    true,
	"HTML2VIDEO_LOG_LEVEL":  true,
	"HTML2VIDEO_LOG_FORMAT": true,
	// Read by doctor only
	"HTML2VIDEO_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized HTML2VIDEO_* values.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("HTML2VIDEO_CONFIG"),
		FFmpeg:     os.Getenv("HTML2VIDEO_FFMPEG"),
		Chrome:     os.Getenv("HTML2VIDEO_CHROME"),
		// Tier 2
		OutputDir: os.Getenv("HTML2VIDEO_OUTPUT_DIR"),
		Format:    os.Getenv("HTML2VIDEO_FORMAT"),
		Audio:     os.Getenv("HTML2VIDEO_AUDIO"),
		// Tier 3
		LogLevel:  os.Getenv("HTML2VIDEO_LOG_LEVEL"),
		LogFormat: os.Getenv("HTML2VIDEO_LOG_FORMAT"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("HTML2VIDEO_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if duration := os.Getenv("HTML2VIDEO_DURATION"); duration != "" {
		if d, err := time.ParseDuration(duration); err == nil && d > 0 {
			cfg.Duration = duration
		}
	}

	cfg.FPS = positiveIntEnv("HTML2VIDEO_FPS")
	cfg.Workers = positiveIntEnv("HTML2VIDEO_WORKERS")

	return cfg
}

// positiveIntEnv returns the named variable as a positive int, or 0.
func positiveIntEnv(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars logs warnings for unrecognized HTML2VIDEO_* variables.
// Helps catch typos like HTML2VIDEO_FORMATS instead of HTML2VIDEO_FORMAT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Binaries (timeout handled separately in resolveTimeoutWithEnv)
	if env.FFmpeg != "" && cfg.Encoder.FFmpegPath == "" {
		cfg.Encoder.FFmpegPath = env.FFmpeg
	}
	if env.Chrome != "" && cfg.Browser.Bin == "" {
		cfg.Browser.Bin = env.Chrome
	}

	// Tier 2 - Output
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Format != "" && cfg.Output.Format == "" {
		cfg.Output.Format = env.Format
	}
	if env.Audio != "" && cfg.Audio.Path == "" {
		cfg.Audio.Path = env.Audio
	}

	// Tier 3 - Capture
	if env.FPS > 0 && cfg.Capture.FPS == 0 {
		cfg.Capture.FPS = env.FPS
	}
	if env.Duration != "" && cfg.Capture.Duration == "" {
		cfg.Capture.Duration = env.Duration
	}

	// Tier 3 - Logging. Log defaults are non-empty, so a value equal to
	// the default counts as unset.
	if env.LogLevel != "" && (cfg.Log.Level == "" || cfg.Log.Level == config.DefaultConfig().Log.Level) {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" && (cfg.Log.Format == "" || cfg.Log.Format == config.DefaultConfig().Log.Format) {
		cfg.Log.Format = env.LogFormat
	}
}
