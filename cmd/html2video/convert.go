package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"

	html2video "github.com/alnah/go-html2video"
	"github.com/alnah/go-html2video/internal/config"
	"github.com/alnah/go-html2video/internal/hints"
	"github.com/alnah/go-html2video/internal/logging"
	"github.com/alnah/go-html2video/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput           = errors.New("no input specified")
	ErrReadVarsFile      = errors.New("failed to read variables file")
	ErrInvalidLogSetting = errors.New("invalid log setting")
)

// loadConfig loads the config named by the flag, then the environment.
// Without either, fallback is used, or the neutral default config when nil.
func loadConfig(flagConfig string, envCfg *envConfig, fallback *config.Config) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		if fallback != nil {
			return fallback, nil
		}
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Capture flags
	if flags.capture.format != "" {
		cfg.Output.Format = flags.capture.format
	}
	if flags.capture.width != 0 {
		cfg.Capture.Width = flags.capture.width
	}
	if flags.capture.height != 0 {
		cfg.Capture.Height = flags.capture.height
	}
	if flags.capture.fps != 0 {
		cfg.Capture.FPS = flags.capture.fps
	}
	if flags.capture.duration != "" {
		cfg.Capture.Duration = flags.capture.duration
	}
	if flags.capture.selector != "" {
		cfg.Capture.Selector = flags.capture.selector
	}

	// Source flags
	if flags.source.audioPath != "" {
		cfg.Audio.Path = flags.source.audioPath
	}

	// Runtime flags
	if flags.runtime.ffmpeg != "" {
		cfg.Encoder.FFmpegPath = flags.runtime.ffmpeg
	}
	if flags.runtime.chrome != "" {
		cfg.Browser.Bin = flags.runtime.chrome
	}
	if flags.runtime.noSandbox {
		cfg.Browser.NoSandbox = true
	}
	if flags.runtime.logLevel != "" {
		cfg.Log.Level = flags.runtime.logLevel
	}
	if flags.runtime.logFormat != "" {
		cfg.Log.Format = flags.runtime.logFormat
	}
}

// resolveOutputDir determines the output directory or file.
// Priority: --output flag > config output.defaultDir > next to the source.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveVariables layers variables from the config, then the variables
// file, then --var flags. Later layers win per name.
func resolveVariables(cfg *config.Config, varsFile string, flagVars map[string]string) (map[string]string, error) {
	vars := make(map[string]string, len(cfg.Variables)+len(flagVars))
	maps.Copy(vars, cfg.Variables)

	if varsFile != "" {
		data, err := os.ReadFile(varsFile) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadVarsFile, err)
		}
		fileVars, err := yamlutil.StringMap(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", varsFile, err)
		}
		maps.Copy(vars, fileVars)
	}

	maps.Copy(vars, flagVars)
	return vars, nil
}

// buildParams validates the merged config and bundles the shared request fields.
func buildParams(flags *convertFlags, cfg *config.Config) (*conversionParams, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	vars, err := resolveVariables(cfg, flags.source.varsFile, flags.source.vars)
	if err != nil {
		return nil, err
	}

	return &conversionParams{
		format:    cfg.Output.Format,
		width:     cfg.Capture.Width,
		height:    cfg.Capture.Height,
		fps:       cfg.Capture.FPS,
		duration:  cfg.CaptureDuration(),
		selector:  cfg.Capture.Selector,
		variables: vars,
		audioPath: cfg.Audio.Path,
	}, nil
}

// collectJobs turns positional inputs or inline markup into conversion jobs.
func collectJobs(positionalArgs []string, inlineHTML, outputDir string, format html2video.Format, now time.Time) ([]FileToConvert, error) {
	if strings.TrimSpace(inlineHTML) != "" {
		if len(positionalArgs) > 0 {
			return nil, html2video.ErrAmbiguousSource
		}
		return []FileToConvert{{
			HTML:       inlineHTML,
			OutputPath: inlineOutputPath(outputDir, now, format),
		}}, nil
	}

	if len(positionalArgs) == 0 {
		return nil, ErrNoInput
	}

	var files []FileToConvert
	for _, input := range positionalArgs {
		found, err := discoverFiles(input, outputDir, format)
		if err != nil {
			return nil, fmt.Errorf("discovering files: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoHTMLFiles, input)
		}
		files = append(files, found...)
	}
	return files, nil
}

// newLogger builds the CLI logger. --verbose defaults to debug and
// --quiet to error unless a level was set explicitly.
func newLogger(flags *convertFlags, cfg *config.Config, env *Environment) (*slog.Logger, error) {
	level := cfg.Log.Level
	if flags.runtime.logLevel == "" {
		switch {
		case flags.common.quiet:
			level = "error"
		case flags.common.verbose:
			level = "debug"
		}
	}

	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Writer: env.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLogSetting, err)
	}
	return logger, nil
}

// converterOptions maps the merged config onto library options.
func converterOptions(cfg *config.Config, timeout time.Duration, logger *slog.Logger) []html2video.Option {
	return []html2video.Option{
		html2video.WithTimeout(timeout),
		html2video.WithLogger(logger),
		html2video.WithFFmpegPath(cfg.Encoder.FFmpegPath),
		html2video.WithBrowserBin(cfg.Browser.Bin),
		html2video.WithNoSandbox(cfg.Browser.NoSandbox),
	}
}

// runConvert discovers jobs, converts them through the pool, and prints results.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, cfg *config.Config, pool Pool, env *Environment) error {
	params, err := buildParams(flags, cfg)
	if err != nil {
		return err
	}

	format, err := html2video.ParseFormat(params.format)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	files, err := collectJobs(positionalArgs, flags.source.html, outputDir, format, env.Now())
	if err != nil {
		return err
	}

	results := convertBatch(ctx, pool, files, params)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, format.String(), env)
	if failedCount > 0 {
		return &batchError{failed: failedCount, first: firstError(results)}
	}

	return nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, format string) string {
	switch {
	case errors.Is(err, html2video.ErrEncoderNotFound):
		return hints.ForEncoderNotFound()
	case errors.Is(err, html2video.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, html2video.ErrSelectorNotFound):
		return hints.ForSelector()
	case errors.Is(err, html2video.ErrMerge):
		return hints.ForAudioMerge()
	case errors.Is(err, html2video.ErrEncode):
		return hints.ForEncode(format)
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, html2video.ErrPageLoad):
		return hints.ForTimeout()
	}
	return ""
}
