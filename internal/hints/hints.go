// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-html2video/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ciVars are set by common CI runners.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// ForBrowserConnect returns hints for browser launch failures.
// Suggests disabling the sandbox in CI or containers, and pointing at a
// specific Chrome when no override is set.
func ForBrowserConnect() string {
	var hints []string

	inCI := false
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			inCI = true
			break
		}
	}

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "pass --no-sandbox or set ROD_NO_SANDBOX=1 in Docker/CI")
	}

	if os.Getenv("HTML2VIDEO_CHROME") == "" && os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "pass --chrome /path/to/chrome (or set HTML2VIDEO_CHROME) to use a specific browser")
	}

	return formatHints(hints)
}

// ForEncoderNotFound returns hints for a missing ffmpeg binary.
func ForEncoderNotFound() string {
	return format("install ffmpeg or pass --ffmpeg /path/to/ffmpeg (or set HTML2VIDEO_FFMPEG)")
}

// ForEncode returns hints for ffmpeg encoding failures.
// libx264 and libvpx-vp9 are missing from some minimal ffmpeg builds.
func ForEncode(outputFormat string) string {
	switch strings.ToLower(outputFormat) {
	case "mp4":
		return format("check that ffmpeg was built with libx264 (ffmpeg -encoders | grep x264)")
	case "webm":
		return format("check that ffmpeg was built with libvpx-vp9 (ffmpeg -encoders | grep vp9)")
	}
	return ""
}

// ForSelector returns a hint for a selector that matched nothing.
func ForSelector() string {
	return format("the selector is evaluated after load; make sure the element exists and is visible")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for long captures or slow pages, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-html2video/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAudioMerge returns hints for audio merge failures.
func ForAudioMerge() string {
	return format("check that the audio file is a valid audio stream (mp3, wav, aac, ogg)")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
