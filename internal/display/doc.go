// Package display keeps the window from starting narrower than the display
// can sensibly show.
//
// Policy, applied once at startup by Guard:
//
//	maxWidth  = widest supported mode
//	minWidth  = maxWidth / 2   when maxWidth >= 3840
//	          = 1024           otherwise
//
// If the current width is below minWidth, the first supported mode (in the
// surface's ascending order) with width >= minWidth and a positive, finite
// refresh rate becomes the new resolution, keeping the fullscreen mode. When
// nothing qualifies the resolution is left as it is and a warning is logged.
package display
