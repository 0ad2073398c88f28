package main

// Notes:
// - notifyContext: real signal delivery would interrupt the test binary, so
//   we cancel through stop() or the parent and check what the batch sees.
// - The batch check confirms that a cancelled run never reaches a converter
//   and reports the context error per input.

import (
	"context"
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNotifyContext - Cancellation sources
// ---------------------------------------------------------------------------

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cancel     func(stop, cancelParent context.CancelFunc)
		wantDone   bool
		wantReason error
	}{
		{
			name:     "live until cancelled",
			cancel:   func(_, _ context.CancelFunc) {},
			wantDone: false,
		},
		{
			name:       "stop cancels",
			cancel:     func(stop, _ context.CancelFunc) { stop() },
			wantDone:   true,
			wantReason: context.Canceled,
		},
		{
			name:       "parent cancellation propagates",
			cancel:     func(_, cancelParent context.CancelFunc) { cancelParent() },
			wantDone:   true,
			wantReason: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parent, cancelParent := context.WithCancel(context.Background())
			defer cancelParent()

			ctx, stop := notifyContext(parent)
			defer stop()

			tt.cancel(stop, cancelParent)

			select {
			case <-ctx.Done():
				if !tt.wantDone {
					t.Fatal("context should still be live")
				}
				if !errors.Is(ctx.Err(), tt.wantReason) {
					t.Errorf("ctx.Err() = %v, want %v", ctx.Err(), tt.wantReason)
				}
			default:
				if tt.wantDone {
					t.Fatal("context should be done")
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNotifyContext_StopsBatch - Interrupted runs skip remaining captures
// ---------------------------------------------------------------------------

func TestNotifyContext_StopsBatch(t *testing.T) {
	t.Parallel()

	ctx, stop := notifyContext(context.Background())
	stop()

	mock := newMockConverter()
	files := []FileToConvert{
		{InputPath: "a.html", OutputPath: "a.mp4"},
		{InputPath: "b.html", OutputPath: "b.mp4"},
	}

	results := convertBatch(ctx, newTestPool(mock, 2), files, &conversionParams{})

	if len(mock.getCalls()) != 0 {
		t.Errorf("converter called %d times after interrupt, want 0", len(mock.getCalls()))
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: Err = %v, want context.Canceled", r.InputPath, r.Err)
		}
	}
}
