package html2video

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/alnah/go-html2video/internal/process"
)

// chromeFlags are passed to every launched browser. They keep frame
// rendering stable on tall viewports and in containers.
var chromeFlags = []string{
	"disable-dev-shm-usage",
	"disable-gpu",
	"disable-accelerated-2d-canvas",
	"hide-scrollbars",
	"mute-audio",
}

// browserOptions configures how the browser is located and launched.
type browserOptions struct {
	bin       string // explicit Chrome binary; empty = ROD_BROWSER_BIN or rod's managed browser
	noSandbox bool
}

// rodBrowser lazily launches one headless Chrome and hands out pages.
// Safe for concurrent use; each capture opens its own page.
type rodBrowser struct {
	opts browserOptions

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodBrowser(opts browserOptions) *rodBrowser {
	return &rodBrowser{opts: opts}
}

// get returns the connected browser, launching it on first use.
func (b *rodBrowser) get() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().Headless(true)
	for _, f := range chromeFlags {
		l = l.Set(flags.Flag(f))
	}

	bin := b.opts.bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if b.opts.noSandbox || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.launcher = l
	b.browser = browser
	return browser, nil
}

// Close shuts the browser down and kills any leftover Chrome processes.
func (b *rodBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		if pid := b.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		b.launcher.Kill()
		b.launcher.Cleanup()
		b.launcher = nil
	}
	return err
}
