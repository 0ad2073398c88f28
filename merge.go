package html2video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-html2video/internal/ffmpeg"
)

// Merger muxes a rendered video with an external audio track.
type Merger interface {
	Merge(ctx context.Context, video, audio, out string) (string, error)
}

var _ Merger = (*ffmpegMerger)(nil)

// ffmpegMerger runs a second ffmpeg pass that copies the video stream and
// encodes the audio, truncating to the shorter input.
type ffmpegMerger struct {
	bin string
}

func newFFmpegMerger(bin string) *ffmpegMerger {
	return &ffmpegMerger{bin: bin}
}

func (m *ffmpegMerger) Merge(ctx context.Context, video, audio, out string) (string, error) {
	bin, err := ffmpeg.Resolve(m.bin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoderNotFound, err)
	}
	if err := ffmpeg.Run(ctx, bin, mergeArgs(video, audio, out)...); err != nil {
		_ = os.Remove(out)
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return out, nil
}

// mergeArgs maps video stream 0 of the first input and audio stream 0 of
// the second. The audio codec follows the output container.
func mergeArgs(video, audio, out string) []string {
	return []string{
		"-i", video,
		"-i", audio,
		"-c:v", "copy",
		"-c:a", mergeAudioCodec(out),
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		out,
	}
}

// mergeAudioCodec picks the audio encoder for an output path.
// Unknown extensions fall back to aac.
func mergeAudioCodec(out string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	if f, err := ParseFormat(ext); err == nil && f.SupportsAudio() {
		return f.audioCodec()
	}
	return "aac"
}
