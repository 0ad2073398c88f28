package html2video

import (
	"fmt"
	"strings"
)

// Format is the closed set of output formats.
type Format int

const (
	FormatMP4 Format = iota
	FormatWebM
	FormatGIF

	formatCount
)

// DefaultFormat is used when a request leaves the format empty.
const DefaultFormat = FormatMP4

// formatProfile is the fixed encoding preset for one format.
type formatProfile struct {
	name        string
	encodeArgs  []string
	transparent bool
	evenSize    bool   // 4:2:0 chroma subsampling needs even width and height
	audioCodec  string // empty = format cannot carry audio
}

// formatProfiles is indexed by Format.
var formatProfiles = [...]formatProfile{
	FormatMP4: {
		name: "mp4",
		encodeArgs: []string{
			"-c:v", "libx264",
			"-pix_fmt", "yuv420p",
			"-preset", "fast",
			"-crf", "18",
		},
		evenSize:   true,
		audioCodec: "aac",
	},
	FormatWebM: {
		name: "webm",
		encodeArgs: []string{
			"-c:v", "libvpx-vp9",
			"-pix_fmt", "yuva420p",
			"-b:v", "2M",
			"-auto-alt-ref", "0",
		},
		transparent: true,
		evenSize:    true,
		audioCodec:  "libopus",
	},
	FormatGIF: {
		name: "gif",
		encodeArgs: []string{
			"-vf", "fps=15,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse",
			"-loop", "0",
		},
	},
}

// The table must have exactly one profile per Format.
var (
	_ [int(formatCount) - len(formatProfiles)]struct{}
	_ [len(formatProfiles) - int(formatCount)]struct{}
)

// Formats returns every supported format in declaration order.
func Formats() []Format {
	out := make([]Format, 0, formatCount)
	for f := Format(0); f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}

// FormatNames returns the names of every supported format.
func FormatNames() []string {
	names := make([]string, 0, formatCount)
	for _, f := range Formats() {
		names = append(names, f.String())
	}
	return names
}

// ParseFormat converts a format name to a Format.
// Empty input yields DefaultFormat. Matching ignores case and a leading dot.
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if name == "" {
		return DefaultFormat, nil
	}
	for _, f := range Formats() {
		if formatProfiles[f].name == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (must be one of %s)", ErrInvalidFormat, s, strings.Join(FormatNames(), ", "))
}

func (f Format) valid() bool {
	return f >= 0 && f < formatCount
}

// String returns the format name, which is also its file extension.
func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatProfiles[f].name
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// EncodeArgs returns a copy of the encoder arguments for the format.
func (f Format) EncodeArgs() []string {
	if !f.valid() {
		return nil
	}
	return append([]string(nil), formatProfiles[f].encodeArgs...)
}

// Transparent reports whether captured frames keep their alpha channel.
// Only webm is treated as alpha-capable.
func (f Format) Transparent() bool {
	return f.valid() && formatProfiles[f].transparent
}

// SupportsAudio reports whether an audio track can be merged into the format.
func (f Format) SupportsAudio() bool {
	return f.valid() && formatProfiles[f].audioCodec != ""
}

// evenSize reports whether the encoder rejects odd frame dimensions.
func (f Format) evenSize() bool {
	return f.valid() && formatProfiles[f].evenSize
}

// audioCodec returns the encoder used for merged audio tracks.
func (f Format) audioCodec() string {
	if !f.valid() {
		return ""
	}
	return formatProfiles[f].audioCodec
}
