package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	html2video "github.com/alnah/go-html2video"
	"github.com/alnah/go-html2video/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrInvalidTimeout is returned for malformed or non-positive timeouts.
var ErrInvalidTimeout = errors.New("invalid timeout")

// commands lists the subcommands understood by runMain.
var commands = map[string]bool{
	"convert":    true,
	"doctor":     true,
	"completion": true,
	"version":    true,
	"help":       true,
}

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command in args and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]

	// Bare inputs are converted without the explicit command
	if !isCommand(cmd) && looksLikeInput(cmd) {
		return runConvertCmd(args[1:], env)
	}

	switch cmd {
	case "convert":
		return runConvertCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version":
		fmt.Fprintf(env.Stdout, "html2video %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	}

	fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// isCommand reports whether name is a known subcommand. Case sensitive.
func isCommand(name string) bool {
	return commands[name]
}

// looksLikeInput reports whether arg is an HTML file or a URL rather than a command.
func looksLikeInput(arg string) bool {
	return fileutil.IsHTMLFile(arg) || fileutil.IsURL(arg)
}

// runConvertCmd parses flags, resolves configuration, and runs the batch.
// Precedence: CLI flags > environment > config file > defaults.
func runConvertCmd(args []string, env *Environment) int {
	flags, positionalArgs, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg, env.Config)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Browser.Timeout)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	logger, err := newLogger(flags, cfg, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	poolSize := html2video.ResolvePoolSize(workers)
	logger.Debug("converter pool", "size", poolSize)

	pool := html2video.NewConverterPool(poolSize, converterOptions(cfg, timeout, logger)...)
	defer func() { _ = pool.Close() }()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positionalArgs, flags, cfg, &poolAdapter{pool: pool}, env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// poolAdapter exposes html2video.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *html2video.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() CLIConverter {
	c := a.pool.Acquire()
	if c == nil {
		// Avoid a non-nil interface holding a nil pointer
		return nil
	}
	return c
}

func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*html2video.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// resolveTimeoutWithEnv picks the page load timeout.
// Priority: flag > environment > config. Zero means the library default.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configValue string) (time.Duration, error) {
	if flagValue != "" {
		return parseTimeout(flagValue)
	}
	if envValue > 0 {
		return envValue, nil
	}
	if configValue != "" {
		return parseTimeout(configValue)
	}
	return 0, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidTimeout, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidTimeout, s)
	}
	return d, nil
}
