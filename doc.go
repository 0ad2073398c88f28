// Package html2video renders HTML documents to MP4, WebM or GIF using
// headless Chrome and ffmpeg.
//
// # Quick Start
//
// Create a converter, convert a document, and close when done:
//
//	conv := html2video.NewConverter()
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, html2video.Request{
//	    Source: html2video.Source{Path: "banner.html"},
//	    Format: "webm",
//	    Output: "banner",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path) // banner.webm
//
// # Conversion Pipeline
//
// Each conversion runs three sequential phases:
//
//  1. Resolve: defaults are applied and the request becomes a ResolvedConfig
//     (output extension corrected, encoder arguments chosen by format).
//  2. Capture: the page is loaded with a virtual clock, the pre-capture hook
//     sets the request variables as CSS custom properties, and one PNG
//     screenshot per frame is piped into ffmpeg.
//  3. Merge: when an audio file is given, exists, and the format is not
//     gif, a second ffmpeg pass muxes it into "<name>_audio.<ext>".
//
// Errors wrap ErrConfiguration, ErrCapture or ErrMerge, so callers can
// tell which phase failed:
//
//	if errors.Is(err, html2video.ErrMerge) { ... }
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := html2video.NewConverter(
//	    html2video.WithTimeout(2 * time.Minute),
//	    html2video.WithFFmpegPath("/opt/ffmpeg/bin/ffmpeg"),
//	    html2video.WithLogger(slog.Default()),
//	)
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser instances:
//
//	pool := html2video.NewConverterPool(html2video.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, req)
//
// Output names are not coordinated between concurrent conversions; callers
// pick distinct names.
//
// # Requirements
//
// Capture requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Encoding requires ffmpeg on PATH or set with WithFFmpegPath.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package html2video
