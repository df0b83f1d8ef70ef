package display

import (
	"math"

	"go.uber.org/zap"
)

const (
	uhdWidth     = 3840
	defaultFloor = 1024
)

// Resolution is one display mode.
type Resolution struct {
	Width       int
	Height      int
	RefreshRate float64
}

// FullscreenMode is how the window occupies the display.
type FullscreenMode int

const (
	ExclusiveFullscreen FullscreenMode = iota
	FullscreenWindow
	MaximizedWindow
	Windowed
)

// ParseFullscreenMode maps a config name to a mode, defaulting to
// FullscreenWindow.
func ParseFullscreenMode(name string) FullscreenMode {
	switch name {
	case "exclusive":
		return ExclusiveFullscreen
	case "maximized":
		return MaximizedWindow
	case "windowed":
		return Windowed
	default:
		return FullscreenWindow
	}
}

func (m FullscreenMode) String() string {
	switch m {
	case ExclusiveFullscreen:
		return "exclusive"
	case MaximizedWindow:
		return "maximized"
	case Windowed:
		return "windowed"
	default:
		return "fullscreen_window"
	}
}

// Surface is the display query surface of the host.
type Surface interface {
	// Resolutions lists supported modes in ascending order.
	Resolutions() []Resolution
	Current() Resolution
	FullscreenMode() FullscreenMode
	SetResolution(width, height int, mode FullscreenMode)
}

// MinWidth returns the smallest acceptable window width for a display whose
// largest mode is maxWidth.
func MinWidth(maxWidth int) int {
	if maxWidth >= uhdWidth {
		return maxWidth / 2
	}
	return defaultFloor
}

// Correct decides whether current is too narrow for modes and, if so,
// returns the first mode in modes that is wide enough and has a usable
// refresh rate. ok is false when no change should be made, including when
// no mode qualifies.
func Correct(modes []Resolution, current Resolution) (Resolution, bool) {
	if len(modes) == 0 {
		return Resolution{}, false
	}
	minWidth := MinWidth(maxWidth(modes))
	if current.Width >= minWidth {
		return Resolution{}, false
	}
	for _, mode := range modes {
		if mode.Width >= minWidth && usableRefreshRate(mode.RefreshRate) {
			return mode, true
		}
	}
	return Resolution{}, false
}

// Guard checks the surface once and applies the corrected resolution,
// keeping the fullscreen mode. It reports whether the resolution changed.
func Guard(surface Surface, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("display")

	modes := surface.Resolutions()
	current := surface.Current()
	fixed, ok := Correct(modes, current)
	if !ok {
		if minWidth := MinWidth(maxWidth(modes)); len(modes) > 0 && current.Width < minWidth {
			logger.Warn("window below minimum width but no supported mode qualifies",
				zap.Int("width", current.Width),
				zap.Int("min_width", minWidth))
		}
		return false
	}

	mode := surface.FullscreenMode()
	logger.Info("correcting window resolution",
		zap.Int("from_width", current.Width),
		zap.Int("to_width", fixed.Width),
		zap.Int("to_height", fixed.Height),
		zap.Stringer("fullscreen", mode))
	surface.SetResolution(fixed.Width, fixed.Height, mode)
	return true
}

func usableRefreshRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

func maxWidth(modes []Resolution) int {
	widest := 0
	for _, mode := range modes {
		widest = max(widest, mode.Width)
	}
	return widest
}
