package tui

import "hexmap/internal/overlay"

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// dashPattern returns on/off pixel counts for a stroke style; 0, 0 is solid.
func dashPattern(s overlay.StrokeStyle) (on, off int) {
	if !s.Dashed() {
		return 0, 0
	}
	switch s {
	case overlay.StrokeShortDash:
		return 3, 2
	case overlay.StrokeDash:
		return 6, 3
	}
	return 3, 3
}
