package lifecycle

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestShutdown_RunsStepsInOrderOnce(t *testing.T) {
	var order []string
	step := func(name string) Step {
		return Func(name, func() { order = append(order, name) })
	}
	s := NewSequencer(nil, step("detach"), step("base"), step("loading"), step("preload"), step("media"))

	s.Shutdown()
	s.Shutdown()

	want := "detach,base,loading,preload,media"
	if got := strings.Join(order, ","); got != want {
		t.Fatalf("order = %s, want %s", got, want)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestShutdown_FailingStepDoesNotSkipLaterSteps(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	boom := errors.New("dispose failed")

	var ran []string
	s := NewSequencer(zap.New(core),
		Func("detach", func() { ran = append(ran, "detach") }),
		Func("base", func() { ran = append(ran, "base") }),
		Step{Name: "loading", Run: func() error {
			ran = append(ran, "loading")
			return boom
		}},
		Func("preload", func() { ran = append(ran, "preload") }),
		Func("media", func() { ran = append(ran, "media") }),
	)

	s.Shutdown()

	if len(ran) != 5 {
		t.Fatalf("ran = %v, want all five steps", ran)
	}
	if err := s.Err(); !errors.Is(err, boom) {
		t.Fatalf("Err() = %v, want it to wrap %v", err, boom)
	}
	if logs.Len() != 1 {
		t.Fatalf("error log entries = %d, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.ContextMap()["name"] != "loading" {
		t.Fatalf("logged step = %v, want loading", entry.ContextMap()["name"])
	}
}

func TestShutdown_PanickingStepIsContained(t *testing.T) {
	var ran []string
	s := NewSequencer(nil,
		Func("loading", func() { panic("nil controller") }),
		Func("preload", func() { panic(errors.New("boom")) }),
		Func("media", func() { ran = append(ran, "media") }),
	)

	s.Shutdown()

	if len(ran) != 1 {
		t.Fatalf("ran = %v, want media to run after panics", ran)
	}
	err := s.Err()
	if err == nil {
		t.Fatal("Err() = nil, want recorded panics")
	}
	for _, want := range []string{"loading: panic: nil controller", "preload: panic: boom"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("Err() = %q, want it to contain %q", err.Error(), want)
		}
	}
}

func TestShutdown_NilRunIsSkipped(t *testing.T) {
	s := NewSequencer(nil, Step{Name: "empty"})
	s.Shutdown()
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}
