package connection

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/five82/rendererhost/internal/state"
)

// ErrAlreadyAttached is returned by Attach when the coordinator already
// observes a signal.
var ErrAlreadyAttached = errors.New("coordinator already attached")

// Signal is a boolean with edge-only change notification.
type Signal interface {
	OnChange(fn state.ChangeFunc[bool]) (unsubscribe func())
}

// Quitter asks the host to end the application.
type Quitter interface {
	RequestQuit()
}

// QuitFunc adapts a function to Quitter.
type QuitFunc func()

// RequestQuit calls f.
func (f QuitFunc) RequestQuit() { f() }

// Phase is the coordinator state.
type Phase int

const (
	Connected Phase = iota
	Lost
)

func (p Phase) String() string {
	if p == Lost {
		return "lost"
	}
	return "connected"
}

// Coordinator watches the "communication established" signal and ends the
// application after the kernel connection drops. Loss is latched: once a
// falling edge is seen the coordinator stays Lost for its lifetime, and a
// later reconnect is ignored.
type Coordinator struct {
	quitter Quitter
	logger  *zap.Logger

	lost          atomic.Bool
	quitRequested bool

	mu          sync.Mutex
	unsubscribe func()
}

// New builds a coordinator that calls quitter once after connection loss.
func New(quitter Quitter, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		quitter: quitter,
		logger:  logger.Named("connection"),
	}
}

// Attach subscribes to signal. Only one subscription is allowed per
// coordinator; detach first to observe a different signal.
func (c *Coordinator) Attach(signal Signal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		return ErrAlreadyAttached
	}
	c.unsubscribe = signal.OnChange(func(current, previous bool) {
		c.OnEdge(previous, current)
	})
	return nil
}

// OnEdge records a transition of the observed signal. Only a falling edge
// (true to false) has an effect.
func (c *Coordinator) OnEdge(previous, current bool) {
	if !previous || current {
		return
	}
	if c.lost.CompareAndSwap(false, true) {
		c.logger.Warn("kernel connection lost, session will end")
	}
}

// Tick runs once per frame. After loss it requests quit exactly once.
func (c *Coordinator) Tick() {
	if !c.lost.Load() || c.quitRequested {
		return
	}
	c.quitRequested = true
	c.logger.Info("requesting application quit")
	if c.quitter != nil {
		c.quitter.RequestQuit()
	}
}

// Detach removes the subscription. It is a no-op when not attached.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Attached reports whether the coordinator holds a subscription.
func (c *Coordinator) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsubscribe != nil
}

// Phase returns the current state.
func (c *Coordinator) Phase() Phase {
	if c.lost.Load() {
		return Lost
	}
	return Connected
}

// Lost reports whether the connection-loss latch is set.
func (c *Coordinator) Lost() bool {
	return c.lost.Load()
}
