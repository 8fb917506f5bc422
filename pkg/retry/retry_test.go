package retry

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/orgball2608/community-feed-bot/pkg/logger"
)

func TestSuperviseRestartsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.New(logger.Opts{Env: "production", Output: io.Discard})
	cfg := Config{InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond, Multiplier: 2}

	runs := 0
	done := make(chan struct{})
	go func() {
		Supervise(ctx, log, "test", func(context.Context) error {
			runs++
			if runs == 3 {
				cancel()
			}
			return errors.New("stopped")
		}, cfg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Supervise did not return after cancel")
	}
	if runs != 3 {
		t.Fatalf("runs = %d, want 3", runs)
	}
}

func TestSuperviseReturnsWhenRunEndsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	log := logger.New(logger.Opts{Env: "production", Output: io.Discard})

	runs := 0
	Supervise(ctx, log, "test", func(ctx context.Context) error {
		runs++
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}, DefaultConfig())

	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
}
