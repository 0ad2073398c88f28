package html2video

import (
	"context"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/alnah/go-html2video/internal/assets"
)

// fakePage records Eval calls made by a hook.
type fakePage struct {
	calls []fakeEval
	err   error
}

type fakeEval struct {
	js   string
	args []any
}

func (p *fakePage) Eval(ctx context.Context, js string, args ...any) error {
	p.calls = append(p.calls, fakeEval{js: js, args: args})
	return p.err
}

func TestInjectVariables(t *testing.T) {
	t.Parallel()

	page := &fakePage{}
	vars := map[string]string{"brand-color": "#ff0000", "--gap": "4px"}

	if err := InjectVariables(context.Background(), page, vars); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.calls) != 1 {
		t.Fatalf("Eval called %d times, want 1", len(page.calls))
	}
	call := page.calls[0]
	if call.js != assets.MustLoadScript(assets.ScriptSetVars) {
		t.Errorf("unexpected script: %s", call.js)
	}
	if len(call.args) != 1 {
		t.Fatalf("args = %v, want one map", call.args)
	}
	got, ok := call.args[0].(map[string]string)
	if !ok || !maps.Equal(got, vars) {
		t.Errorf("args[0] = %#v, want %v", call.args[0], vars)
	}
}

func TestInjectVariables_NilMap(t *testing.T) {
	t.Parallel()

	page := &fakePage{}
	if err := InjectVariables(context.Background(), page, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := page.calls[0].args[0].(map[string]string)
	if !ok || got == nil {
		t.Errorf("nil vars should be passed as an empty map, got %#v", page.calls[0].args[0])
	}
}

func TestInjectVariables_EvalError(t *testing.T) {
	t.Parallel()

	page := &fakePage{err: errors.New("page crashed")}
	err := InjectVariables(context.Background(), page, map[string]string{"a": "b"})

	if !errors.Is(err, ErrHook) {
		t.Fatalf("error = %v, want ErrHook", err)
	}
	if !strings.Contains(err.Error(), "page crashed") {
		t.Errorf("error should carry the page detail: %v", err)
	}
}

func TestSetVarsScript_PrefixesNames(t *testing.T) {
	t.Parallel()

	js := assets.MustLoadScript(assets.ScriptSetVars)
	for _, want := range []string{`startsWith("--")`, "setProperty", `zoom = "1"`} {
		if !strings.Contains(js, want) {
			t.Errorf("setvars script missing %q", want)
		}
	}
}
