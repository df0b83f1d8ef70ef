// Package media owns the background decoding goroutines of video playback.
//
// StopAll cancels every decoder and returns at once. It does not wait for
// the goroutines to exit, so a decoder may still be finishing its current
// frame after StopAll returns. Use Wait where an orderly drain is needed.
package media

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// DecodeFunc runs a decoder until ctx is cancelled.
type DecodeFunc func(ctx context.Context) error

// Pool tracks running decoders.
type Pool struct {
	logger *zap.Logger

	mu      sync.Mutex
	cancels map[int]context.CancelFunc
	nextID  int
	stopped bool
	wg      sync.WaitGroup
}

// NewPool returns an empty pool.
func NewPool(logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		logger:  logger.Named("media"),
		cancels: make(map[int]context.CancelFunc),
	}
}

// Start launches fn on its own goroutine. It returns false without starting
// anything once StopAll has been called.
func (p *Pool) Start(name string, fn DecodeFunc) bool {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.logger.Debug("decoder rejected after stop", zap.String("decoder", name))
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := p.nextID
	p.nextID++
	p.cancels[id] = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer p.release(id)
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("decoder stopped with error", zap.String("decoder", name), zap.Error(err))
		}
	}()
	return true
}

// Running reports how many decoders have not returned yet.
func (p *Pool) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cancels)
}

// StopAll signals every decoder to stop and refuses new ones. It does not
// join.
func (p *Pool) StopAll() {
	p.mu.Lock()
	p.stopped = true
	cancels := make([]context.CancelFunc, 0, len(p.cancels))
	for _, cancel := range p.cancels {
		cancels = append(cancels, cancel)
	}
	p.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	p.logger.Info("stop signalled to decoders", zap.Int("count", len(cancels)))
}

// Wait blocks until every started decoder has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) release(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cancel, ok := p.cancels[id]; ok {
		cancel()
		delete(p.cancels, id)
	}
}
