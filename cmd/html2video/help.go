package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2video <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Capture HTML files or URLs to video")
	fmt.Fprintln(w, "  doctor      Check Chrome and ffmpeg setup")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'html2video help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2video convert <input>... [flags]")
	fmt.Fprintln(w, "       html2video convert --html <markup> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture HTML pages to mp4, webm, or gif.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file, directory of .html/.htm files, or URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: mp4, webm, gif (default: mp4)")
	fmt.Fprintln(w, "      --html <markup>       Inline HTML instead of input files")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "      --width <n>           Viewport width in pixels (default: 800)")
	fmt.Fprintln(w, "      --height <n>          Viewport height in pixels (default: 3000)")
	fmt.Fprintln(w, "      --fps <n>             Frames per second (default: 60)")
	fmt.Fprintln(w, "      --duration <d>        Capture window, e.g. 15s, 1m (default: 15s)")
	fmt.Fprintln(w, "      --selector <css>      Capture only the matching element")
	fmt.Fprintln(w, "  -t, --timeout <d>         Page load timeout (default: 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Variables:")
	fmt.Fprintln(w, "      --var <name=value>    CSS variable, repeatable (brand-color=#f00)")
	fmt.Fprintln(w, "      --vars-file <path>    YAML mapping of CSS variables")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Audio:")
	fmt.Fprintln(w, "      --audio <path>        Merge an audio track into <name>_audio.<ext>")
	fmt.Fprintln(w, "                            Ignored for gif")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Runtime:")
	fmt.Fprintln(w, "      --ffmpeg <path>       ffmpeg binary (default: ffmpeg in PATH)")
	fmt.Fprintln(w, "      --chrome <path>       Chrome/Chromium binary")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (containers)")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      Log format: auto, text, json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTML2VIDEO_CONFIG, HTML2VIDEO_TIMEOUT, HTML2VIDEO_FFMPEG, HTML2VIDEO_CHROME,")
	fmt.Fprintln(w, "  HTML2VIDEO_OUTPUT_DIR, HTML2VIDEO_FORMAT, HTML2VIDEO_AUDIO, HTML2VIDEO_FPS,")
	fmt.Fprintln(w, "  HTML2VIDEO_DURATION, HTML2VIDEO_WORKERS, HTML2VIDEO_LOG_LEVEL, HTML2VIDEO_LOG_FORMAT")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2video doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome and ffmpeg are available and the environment is ready.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: html2video version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: html2video help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
