package html2video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2video/internal/assets"
	"github.com/alnah/go-html2video/internal/ffmpeg"
	"github.com/alnah/go-html2video/internal/fileutil"
)

// Capturer renders a resolved configuration into a video or image file.
// It returns the path of the file it wrote.
type Capturer interface {
	Capture(ctx context.Context, cfg *ResolvedConfig) (string, error)
}

// frameSource yields screenshots of a page whose clock only moves on Advance.
type frameSource interface {
	Advance(ctx context.Context, step time.Duration) error
	Frame(ctx context.Context) ([]byte, error)
}

// frameSink consumes encoded frames and produces the output file on Close.
type frameSink interface {
	WriteFrame(frame []byte) error
	Close() error
	Abort()
}

// Compile-time interface checks
var (
	_ Capturer    = (*rodCapturer)(nil)
	_ frameSource = (*rodFrameSource)(nil)
	_ frameSink   = (*encoderSink)(nil)
	_ PageHandle  = (*rodPage)(nil)
)

// captureFrames pulls n frames from src into sink, advancing the virtual
// clock by step between consecutive frames. The first frame is t=0; a zero
// advance before it pauses running animations and flushes pending
// animation frame callbacks.
func captureFrames(ctx context.Context, src frameSource, sink frameSink, n int, step time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := src.Advance(ctx, 0); err != nil {
		return fmt.Errorf("%w: syncing clock: %v", ErrFrameCapture, err)
	}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			if err := src.Advance(ctx, step); err != nil {
				return fmt.Errorf("%w: advancing to frame %d: %v", ErrFrameCapture, i, err)
			}
		}
		frame, err := src.Frame(ctx)
		if err != nil {
			return fmt.Errorf("%w: frame %d: %v", ErrFrameCapture, i, err)
		}
		if err := sink.WriteFrame(frame); err != nil {
			return fmt.Errorf("%w: frame %d: %v", ErrEncode, i, err)
		}
	}
	return nil
}

// rodCapturer captures frames with headless Chrome and encodes them with ffmpeg.
type rodCapturer struct {
	browser   *rodBrowser
	ffmpegBin string
	timeout   time.Duration
	logger    *slog.Logger

	// newSink is replaced in tests.
	newSink func(ctx context.Context, bin string, cfg *ResolvedConfig) (frameSink, error)
}

func newRodCapturer(browser *rodBrowser, ffmpegBin string, timeout time.Duration, logger *slog.Logger) *rodCapturer {
	return &rodCapturer{
		browser:   browser,
		ffmpegBin: ffmpegBin,
		timeout:   timeout,
		logger:    logger,
		newSink:   startEncoder,
	}
}

// Capture loads the source, runs the pre-capture hook, and streams
// FrameCount PNG frames into ffmpeg. On failure the partial output is removed.
func (c *rodCapturer) Capture(ctx context.Context, cfg *ResolvedConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bin, err := ffmpeg.Resolve(c.ffmpegBin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoderNotFound, err)
	}

	url := cfg.URL
	if cfg.Source.IsInline() {
		path, cleanup, err := fileutil.WriteTempFile(cfg.Source.HTML, "html")
		if err != nil {
			return "", fmt.Errorf("%w: writing inline HTML: %v", ErrPageLoad, err)
		}
		defer cleanup()
		if url, err = SourceURL(path); err != nil {
			return "", err
		}
	}

	page, err := c.openPage(ctx, cfg, url)
	if err != nil {
		return "", err
	}
	defer func() { _ = page.Close() }()

	src, err := newRodFrameSource(ctx, page, cfg.Selector)
	if err != nil {
		return "", err
	}

	sink, err := c.newSink(ctx, bin, cfg)
	if err != nil {
		return "", err
	}

	frames := cfg.FrameCount()
	c.logger.Debug("capturing frames", "frames", frames, "interval", cfg.FrameInterval(), "output", cfg.OutputPath)

	if err := captureFrames(ctx, src, sink, frames, cfg.FrameInterval()); err != nil {
		sink.Abort()
		_ = os.Remove(cfg.OutputPath)
		return "", err
	}
	if err := sink.Close(); err != nil {
		_ = os.Remove(cfg.OutputPath)
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return cfg.OutputPath, nil
}

// Close releases browser resources.
func (c *rodCapturer) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}

// openPage creates a page sized to the viewport, installs the virtual
// clock, navigates to url, and runs the hook.
func (c *rodCapturer) openPage(ctx context.Context, cfg *ResolvedConfig, url string) (*rod.Page, error) {
	browser, err := c.browser.get()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	page = page.Context(ctx)

	fail := func(sentinel error, err error) (*rod.Page, error) {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.Width,
		Height:            cfg.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fail(ErrPageCreate, err)
	}

	if cfg.Transparent {
		err := proto.EmulationSetDefaultBackgroundColorOverride{
			Color: &proto.DOMRGBA{R: 0, G: 0, B: 0, A: floatPtr(0)},
		}.Call(page)
		if err != nil {
			return fail(ErrPageCreate, err)
		}
	}

	if _, err := page.EvalOnNewDocument(assets.MustLoadScript(assets.ScriptVirtualTime)); err != nil {
		return fail(ErrPageCreate, err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	loading := page.Timeout(timeout)
	if err := loading.Navigate(url); err != nil {
		return fail(ErrPageLoad, err)
	}
	if err := loading.WaitLoad(); err != nil {
		return fail(ErrPageLoad, err)
	}
	c.logger.Debug("page loaded", "url", url)

	if cfg.Hook != nil {
		if err := cfg.Hook(ctx, &rodPage{page: page}, cfg.Variables); err != nil {
			_ = page.Close()
			if errors.Is(err, ErrHook) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrHook, err)
		}
	}

	return page, nil
}

// rodPage adapts a rod page to PageHandle.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Eval(ctx context.Context, js string, args ...any) error {
	_, err := p.page.Context(ctx).Eval(js, args...)
	return err
}

// rodFrameSource screenshots a page, optionally clipped to one element.
type rodFrameSource struct {
	page *rod.Page
	clip *proto.PageViewport
}

func newRodFrameSource(ctx context.Context, page *rod.Page, selector string) (*rodFrameSource, error) {
	src := &rodFrameSource{page: page}
	if selector == "" {
		return src, nil
	}

	res, err := page.Context(ctx).Eval(assets.MustLoadScript(assets.ScriptBounds), selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSelectorNotFound, selector, err)
	}
	if res.Value.Nil() {
		return nil, fmt.Errorf("%w: %q", ErrSelectorNotFound, selector)
	}

	var box struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := res.Value.Unmarshal(&box); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSelectorNotFound, selector, err)
	}
	if box.Width < 1 || box.Height < 1 {
		return nil, fmt.Errorf("%w: %q has an empty bounding box", ErrSelectorNotFound, selector)
	}

	src.clip = &proto.PageViewport{
		X:      math.Floor(box.X),
		Y:      math.Floor(box.Y),
		Width:  evenFloor(box.Width),
		Height: evenFloor(box.Height),
		Scale:  1,
	}
	return src, nil
}

func (s *rodFrameSource) Advance(ctx context.Context, step time.Duration) error {
	ms := float64(step) / float64(time.Millisecond)
	_, err := s.page.Context(ctx).Eval(assets.MustLoadScript(assets.ScriptAdvance), ms)
	return err
}

func (s *rodFrameSource) Frame(ctx context.Context) ([]byte, error) {
	req := &proto.PageCaptureScreenshot{
		Format:      proto.PageCaptureScreenshotFormatPng,
		FromSurface: true,
	}
	if s.clip != nil {
		req.Clip = s.clip
		req.CaptureBeyondViewport = true
	}
	return s.page.Context(ctx).Screenshot(false, req)
}

// encoderSink streams PNG frames into an ffmpeg process.
type encoderSink struct {
	pipe *ffmpeg.Pipe
}

func startEncoder(ctx context.Context, bin string, cfg *ResolvedConfig) (frameSink, error) {
	pipe, err := ffmpeg.Start(ctx, bin, encoderArgs(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderStart, err)
	}
	return &encoderSink{pipe: pipe}, nil
}

func (s *encoderSink) WriteFrame(frame []byte) error {
	_, err := s.pipe.Write(frame)
	return err
}

func (s *encoderSink) Close() error {
	return s.pipe.Close()
}

func (s *encoderSink) Abort() {
	s.pipe.Abort()
}

// encoderArgs builds the ffmpeg arguments that read PNG frames from stdin
// and write cfg.OutputPath with the format's encoder arguments.
func encoderArgs(cfg *ResolvedConfig) []string {
	args := []string{
		"-f", "image2pipe",
		"-c:v", "png",
		"-framerate", strconv.Itoa(cfg.FPS),
		"-i", "pipe:0",
	}
	args = append(args, cfg.EncodeArgs...)
	return append(args, cfg.OutputPath)
}

// evenFloor rounds v down to an even integer, at least 2.
// yuv420p output needs even frame dimensions.
func evenFloor(v float64) float64 {
	n := int(v) &^ 1
	if n < 2 {
		n = 2
	}
	return float64(n)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
