package display

import "sync"

// Static is a Surface backed by a fixed mode list, used when the host has
// no real display to query.
type Static struct {
	mu      sync.Mutex
	modes   []Resolution
	current Resolution
	mode    FullscreenMode
}

// NewStatic returns a surface reporting modes, current and mode.
func NewStatic(modes []Resolution, current Resolution, mode FullscreenMode) *Static {
	dup := make([]Resolution, len(modes))
	copy(dup, modes)
	return &Static{modes: dup, current: current, mode: mode}
}

func (s *Static) Resolutions() []Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := make([]Resolution, len(s.modes))
	copy(dup, s.modes)
	return dup
}

func (s *Static) Current() Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Static) FullscreenMode() FullscreenMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetResolution records the new resolution. The refresh rate of a matching
// mode is kept when one exists.
func (s *Static) SetResolution(width, height int, mode FullscreenMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Resolution{Width: width, Height: height}
	for _, m := range s.modes {
		if m.Width == width && m.Height == height {
			next.RefreshRate = m.RefreshRate
			break
		}
	}
	s.current = next
	s.mode = mode
}
