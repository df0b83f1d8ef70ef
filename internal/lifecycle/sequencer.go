// Package lifecycle runs the ordered, best-effort shutdown of the host.
//
// Every step runs inside its own error boundary: a returned error or a panic
// is logged and recorded, and the next step still runs. Nothing is retried
// and nothing reaches the caller, because teardown happens once and must not
// take the process down.
package lifecycle

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Step is one named teardown action.
type Step struct {
	Name string
	Run  func() error
}

// Func wraps an action that cannot report an error.
func Func(name string, fn func()) Step {
	return Step{Name: name, Run: func() error {
		fn()
		return nil
	}}
}

// Sequencer runs its steps in order, once.
type Sequencer struct {
	steps  []Step
	logger *zap.Logger

	once sync.Once
	mu   sync.Mutex
	errs []error
}

// NewSequencer returns a sequencer for steps.
func NewSequencer(logger *zap.Logger, steps ...Step) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{steps: steps, logger: logger.Named("shutdown")}
}

// Shutdown runs every step in order. Only the first call does anything.
func (s *Sequencer) Shutdown() {
	s.once.Do(func() {
		s.logger.Info("shutdown started", zap.Int("steps", len(s.steps)))
		for i, step := range s.steps {
			if err := runStep(step); err != nil {
				s.logger.Error("shutdown step failed",
					zap.Int("step", i+1),
					zap.String("name", step.Name),
					zap.Error(err))
				s.mu.Lock()
				s.errs = append(s.errs, fmt.Errorf("%s: %w", step.Name, err))
				s.mu.Unlock()
				continue
			}
			s.logger.Debug("shutdown step done", zap.Int("step", i+1), zap.String("name", step.Name))
		}
		s.logger.Info("shutdown finished")
	})
}

// Err returns the failures recorded by Shutdown, joined, or nil.
func (s *Sequencer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.errs...)
}

func runStep(step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if step.Run == nil {
		return nil
	}
	return step.Run()
}
