// Package viewport implements the pan/zoom state of the map display and the
// conversions between screen coordinates and the map's fixed native space.
//
// All map content (spots, strokes) is stored in native coordinates, a square
// logical space that is independent of window size and zoom level. The
// rendered position of a native point is native*scale + stage, where stage is
// the screen offset of the native origin and scale is the effective scale.
// State transitions are pure functions so they can be tested without a UI.
package viewport

import (
	"nadebook/pkg/geometry"
)

// Params holds the fixed display parameters of a viewport. They change only
// when the widget is resized or a different map is loaded.
type Params struct {
	// NativeSize is the side length of the square native coordinate space.
	NativeSize float64

	// Display is the on-screen size of the viewport in pixels.
	Display geometry.Size

	// Zoom factor limits and the multiplicative step applied per wheel tick.
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64
}

// DefaultParams returns viewport parameters for the given display size with
// the standard native space and zoom range.
func DefaultParams(display geometry.Size) Params {
	return Params{
		NativeSize: 1200,
		Display:    display,
		MinZoom:    0.5,
		MaxZoom:    8.0,
		ZoomStep:   1.08,
	}
}

// State is the mutable part of a viewport: the current zoom factor and the
// screen offset of the native origin. A State is only meaningful together
// with the Params it was produced under.
type State struct {
	Zoom  float64
	Stage geometry.Point2D
}

// BaseScale is the fit-to-width scale: one native unit in screen pixels at
// zoom factor 1.
func (p Params) BaseScale() float64 {
	return p.Display.Width / p.NativeSize
}

// EffectiveScale is the product of the base scale and the current zoom factor.
func (p Params) EffectiveScale(s State) float64 {
	return p.BaseScale() * s.Zoom
}

// ToNative converts a screen-space point to native coordinates under the
// given state.
func (p Params) ToNative(s State, screen geometry.Point2D) geometry.Point2D {
	scale := p.EffectiveScale(s)
	return screen.Sub(s.Stage).Scale(1 / scale)
}

// ToScreen converts a native-space point to screen coordinates under the
// given state. It is the inverse of ToNative.
func (p Params) ToScreen(s State, native geometry.Point2D) geometry.Point2D {
	scale := p.EffectiveScale(s)
	return native.Scale(scale).Add(s.Stage)
}

// InBounds reports whether a native point lies inside the native space.
// Points on the boundary are inside.
func (p Params) InBounds(native geometry.Point2D) bool {
	return native.X >= 0 && native.X <= p.NativeSize &&
		native.Y >= 0 && native.Y <= p.NativeSize
}
