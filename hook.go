package html2video

import (
	"context"
	"fmt"

	"github.com/alnah/go-html2video/internal/assets"
)

// PageHandle is the loaded page as seen by a PreCaptureHook.
type PageHandle interface {
	// Eval calls the JavaScript function expression js with args in the page.
	Eval(ctx context.Context, js string, args ...any) error
}

// PreCaptureHook runs once per conversion after the page has loaded and
// before the first frame is captured. It receives the request variables
// explicitly rather than capturing request state.
type PreCaptureHook func(ctx context.Context, page PageHandle, vars map[string]string) error

// InjectVariables is the default hook. It sets every entry of vars as a CSS
// custom property on the document root ("brand-color" becomes
// "--brand-color"; names already starting with "--" are kept) and resets
// the body zoom to 1.
func InjectVariables(ctx context.Context, page PageHandle, vars map[string]string) error {
	if vars == nil {
		vars = map[string]string{}
	}
	if err := page.Eval(ctx, assets.MustLoadScript(assets.ScriptSetVars), vars); err != nil {
		return fmt.Errorf("%w: injecting variables: %v", ErrHook, err)
	}
	return nil
}
