// Package preload shows the preloading indicator until the renderer is
// ready for its first frame.
package preload

import (
	"go.uber.org/zap"

	"github.com/five82/rendererhost/internal/state"
)

// Controller owns the preloading indicator.
type Controller struct {
	visible     *state.Bool
	logger      *zap.Logger
	unsubscribe func()
	disposed    bool
}

// New shows the indicator unless the renderer is already ready, and hides it
// on the renderer's first ready transition.
func New(rendererReady, visible *state.Bool, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{visible: visible, logger: logger.Named("preload")}

	visible.Set(!rendererReady.Get())
	c.unsubscribe = rendererReady.OnChange(func(current, _ bool) {
		if current {
			c.logger.Debug("renderer ready, hiding preloading indicator")
			visible.Set(false)
		}
	})
	return c
}

// Dispose hides the indicator and drops the subscription. Further calls are
// no-ops.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.unsubscribe()
	c.visible.Set(false)
}
