package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// captureFlags holds the capture window flags.
type captureFlags struct {
	format   string
	width    int
	height   int
	fps      int
	duration string
	selector string
}

// sourceFlags holds inputs that do not come from positional arguments.
type sourceFlags struct {
	html      string            // inline markup
	vars      map[string]string // --var name=value
	varsFile  string            // YAML mapping of variables
	audioPath string
}

// runtimeFlags holds browser, encoder, and logging flags.
type runtimeFlags struct {
	ffmpeg    string
	chrome    string
	noSandbox bool
	logLevel  string
	logFormat string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	capture captureFlags
	source  sourceFlags
	runtime runtimeFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addCaptureFlags adds capture window flags to a FlagSet.
func addCaptureFlags(fs *flag.FlagSet, f *captureFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "output format: mp4, webm, gif")
	fs.IntVar(&f.width, "width", 0, "viewport width in pixels (default: 800)")
	fs.IntVar(&f.height, "height", 0, "viewport height in pixels (default: 3000)")
	fs.IntVar(&f.fps, "fps", 0, "frames per second (default: 60)")
	fs.StringVar(&f.duration, "duration", "", "capture duration (e.g., 15s, 1m)")
	fs.StringVar(&f.selector, "selector", "", "CSS selector of the element to capture")
}

// addSourceFlags adds inline source, variable, and audio flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.html, "html", "", "inline HTML to capture instead of files")
	fs.StringToStringVar(&f.vars, "var", nil, "CSS variable name=value (repeatable)")
	fs.StringVar(&f.varsFile, "vars-file", "", "YAML file of CSS variables")
	fs.StringVar(&f.audioPath, "audio", "", "audio track to merge (mp4 and webm only)")
}

// addRuntimeFlags adds browser, encoder, and logging flags to a FlagSet.
func addRuntimeFlags(fs *flag.FlagSet, f *runtimeFlags) {
	fs.StringVar(&f.ffmpeg, "ffmpeg", "", "ffmpeg binary path")
	fs.StringVar(&f.chrome, "chrome", "", "Chrome/Chromium binary path")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: auto, text, json")
}

// newConvertFlagSet builds the convert FlagSet bound to f.
// Shared by parsing and shell completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page load timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addCaptureFlags(fs, &f.capture)
	addSourceFlags(fs, &f.source)
	addRuntimeFlags(fs, &f.runtime)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
