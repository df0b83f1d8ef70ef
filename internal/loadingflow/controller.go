package loadingflow

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/five82/rendererhost/internal/state"
)

// DefaultTimeout is how long the loading screen waits before it switches to
// the timeout presentation.
const DefaultTimeout = 100 * time.Second

// Phase is what the loading screen currently shows.
type Phase int

const (
	Loading Phase = iota
	Ready
	Timeout
	Fatal
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "ready"
	case Timeout:
		return "timeout"
	case Fatal:
		return "fatal"
	default:
		return "loading"
	}
}

// Signals are the handles the controller reads. LoadingVisible is the only
// one it writes.
type Signals struct {
	FatalError               *state.Bool
	LoadingVisible           *state.Bool
	RendererReady            *state.Bool
	CommunicationEstablished *state.Bool
}

// Options tune a Controller. Zero values select defaults.
type Options struct {
	Timeout time.Duration
	Now     func() time.Time
	Logger  *zap.Logger
}

// Controller drives loading screen visibility from the four loading
// signals. Update must be called from the frame loop.
type Controller struct {
	signals Signals
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger

	phase        Phase
	startedAt    time.Time
	elapsed      time.Duration
	reachedReady bool
	restartTimer atomic.Bool

	unsubscribe []func()
	disposed    bool
}

// New builds a controller and subscribes to the connection and fatal error
// signals. Every handle in signals must be non-nil.
func New(signals Signals, opts Options) *Controller {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		signals:   signals,
		timeout:   timeout,
		now:       now,
		logger:    logger.Named("loadingflow"),
		startedAt: now(),
	}

	c.unsubscribe = append(c.unsubscribe,
		signals.CommunicationEstablished.OnChange(func(current, _ bool) {
			if current {
				// The wait restarts once a kernel connects.
				c.restartTimer.Store(true)
			}
		}),
		signals.FatalError.OnChange(func(current, _ bool) {
			if current {
				c.logger.Error("fatal error reported, keeping loading screen up")
			}
		}),
	)
	return c
}

// Update advances the loading flow by one frame.
//
//   - A pending fatal error forces the loading screen visible.
//   - Renderer ready and kernel connected hide it, and it stays hidden
//     until a fatal error appears.
//   - Otherwise it stays visible, switching to Timeout once the wait
//     exceeds the timeout.
func (c *Controller) Update() {
	if c.disposed {
		return
	}
	if c.signals.FatalError.Get() {
		c.enter(Fatal)
		c.signals.LoadingVisible.Set(true)
		return
	}

	if c.signals.RendererReady.Get() && c.signals.CommunicationEstablished.Get() {
		c.reachedReady = true
	}
	if c.reachedReady {
		c.enter(Ready)
		c.signals.LoadingVisible.Set(false)
		return
	}

	now := c.now()
	if c.restartTimer.Swap(false) {
		c.startedAt = now
	}
	c.elapsed = now.Sub(c.startedAt)
	if c.elapsed >= c.timeout {
		c.enter(Timeout)
	} else {
		c.enter(Loading)
	}
	c.signals.LoadingVisible.Set(true)
}

// Phase returns the phase reached by the last Update.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Progress reports how much of the wait had passed at the last Update, in
// [0, 1]. It stays at its last value once the flow leaves Loading.
func (c *Controller) Progress() float64 {
	if c.elapsed >= c.timeout {
		return 1
	}
	return float64(c.elapsed) / float64(c.timeout)
}

// Dispose releases the signal subscriptions. Further calls are no-ops.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
}

func (c *Controller) enter(phase Phase) {
	if c.phase == phase {
		return
	}
	c.logger.Info("loading flow phase changed",
		zap.Stringer("from", c.phase),
		zap.Stringer("to", phase),
		zap.Duration("elapsed", c.now().Sub(c.startedAt)))
	c.phase = phase
}
