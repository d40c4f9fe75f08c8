package viewport

import (
	"nadebook/pkg/geometry"
)

// Clamp constrains the stage offset so the rendered map stays inside the
// usable area of the display. Each axis is handled independently: when the
// scaled map is at least as large as the display on that axis, the offset is
// limited so no empty margin appears; when it is smaller, the map is locked
// to the centering offset.
func Clamp(p Params, s State) State {
	mapPx := p.NativeSize * p.EffectiveScale(s)
	s.Stage.X = clampAxis(s.Stage.X, mapPx, p.Display.Width)
	s.Stage.Y = clampAxis(s.Stage.Y, mapPx, p.Display.Height)
	return s
}

func clampAxis(offset, mapPx, displayPx float64) float64 {
	if mapPx >= displayPx {
		if offset < displayPx-mapPx {
			return displayPx - mapPx
		}
		if offset > 0 {
			return 0
		}
		return offset
	}
	return (displayPx - mapPx) / 2
}

// Reset returns the initial state: zoom factor 1 with the map centered in
// the display.
func Reset(p Params) State {
	s := State{Zoom: 1}
	mapPx := p.NativeSize * p.EffectiveScale(s)
	s.Stage = geometry.NewPoint2D(
		(p.Display.Width-mapPx)/2,
		(p.Display.Height-mapPx)/2,
	)
	return Clamp(p, s)
}

// ApplyWheel returns the state after one wheel step at the given pointer
// position. A positive delta (scroll up) zooms in, a negative delta zooms
// out. The native point under the pointer stays at the same screen position
// across the step, then the result is clamped to the display bounds.
func ApplyWheel(p Params, s State, pointer geometry.Point2D, delta float64) State {
	if delta == 0 {
		return s
	}

	zoom := s.Zoom
	if delta > 0 {
		zoom *= p.ZoomStep
	} else {
		zoom /= p.ZoomStep
	}
	if zoom < p.MinZoom {
		zoom = p.MinZoom
	}
	if zoom > p.MaxZoom {
		zoom = p.MaxZoom
	}
	if zoom == s.Zoom {
		return s
	}

	// Anchor the native point currently under the pointer.
	anchor := p.ToNative(s, pointer)

	next := State{Zoom: zoom}
	next.Stage = pointer.Sub(anchor.Scale(p.EffectiveScale(next)))
	return Clamp(p, next)
}

// ApplyDrag returns the state after panning by a screen-space delta, clamped
// to the display bounds.
func ApplyDrag(p Params, s State, dx, dy float64) State {
	s.Stage.X += dx
	s.Stage.Y += dy
	return Clamp(p, s)
}
