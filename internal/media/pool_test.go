package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPool_StopAllCancelsWithoutJoining(t *testing.T) {
	p := NewPool(nil)

	release := make(chan struct{})
	cancelled := make(chan struct{}, 2)
	for _, name := range []string{"a", "b"} {
		ok := p.Start(name, func(ctx context.Context) error {
			<-ctx.Done()
			cancelled <- struct{}{}
			<-release // still busy after the stop signal
			return ctx.Err()
		})
		if !ok {
			t.Fatalf("Start(%s) returned false", name)
		}
	}
	if p.Running() != 2 {
		t.Fatalf("Running() = %d, want 2", p.Running())
	}

	done := make(chan struct{})
	go func() {
		p.StopAll()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("StopAll blocked on running decoders")
	}

	for i := 0; i < 2; i++ {
		select {
		case <-cancelled:
		case <-time.After(2 * time.Second):
			t.Fatal("decoder did not observe cancellation")
		}
	}
	if p.Running() != 2 {
		t.Fatalf("Running() = %d right after StopAll, want 2 (no join)", p.Running())
	}

	close(release)
	p.Wait()
	if p.Running() != 0 {
		t.Fatalf("Running() = %d after Wait, want 0", p.Running())
	}
}

func TestPool_StartAfterStopRejected(t *testing.T) {
	p := NewPool(nil)
	p.StopAll()
	if p.Start("late", func(context.Context) error { return nil }) {
		t.Fatal("Start after StopAll returned true")
	}
	if p.Running() != 0 {
		t.Fatalf("Running() = %d, want 0", p.Running())
	}
}

func TestPool_FinishedDecoderIsReleased(t *testing.T) {
	p := NewPool(nil)
	p.Start("short", func(context.Context) error { return errors.New("bad stream") })
	p.Wait()
	if p.Running() != 0 {
		t.Fatalf("Running() = %d, want 0", p.Running())
	}
}

func TestPool_StopAllIdempotent(t *testing.T) {
	p := NewPool(nil)
	p.StopAll()
	p.StopAll()
}
