package canvas

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nadebook/internal/gesture"
	"nadebook/internal/sketch"
	"nadebook/internal/spot"
	"nadebook/internal/viewport"
	"nadebook/pkg/geometry"
)

// newTestViewport builds a viewport with a 900x600 display over the standard
// 1200 native space, so the effective scale is 0.75 and the map is centered
// at stage (0, -150).
func newTestViewport(t *testing.T) *MapViewport {
	t.Helper()
	test.NewApp()
	params := viewport.Params{
		NativeSize: 1200,
		Display:    geometry.NewSize(900, 600),
		MinZoom:    0.5,
		MaxZoom:    8.0,
		ZoomStep:   1.08,
	}
	return NewMapViewport(params, sketch.NewCapture(sketch.DefaultCaptureConfig(1200)))
}

func primaryDown(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:       desktop.MouseButtonPrimary,
	}
}

func TestMapViewport_DrawRendersMarker(t *testing.T) {
	v := newTestViewport(t)
	v.SetBackground(image.NewRGBA(image.Rect(0, 0, 1200, 1200)), "")
	v.SetSpots([]spot.Spot{{ID: "s1", Map: "de_mirage", Type: spot.TypeSmoke, X: 600, Y: 600}})

	out := v.draw(900, 600).(*image.RGBA)

	// Native (600,600) renders at screen (450,300); sample inside the disc
	// but clear of the letter glyph and the outline ring.
	got := out.RGBAAt(456, 300)
	assert.Equal(t, markerColors[spot.TypeSmoke], got)
}

func TestMapViewport_BrowseClickSelectsMarker(t *testing.T) {
	v := newTestViewport(t)
	v.SetSpots([]spot.Spot{{ID: "s1", Map: "de_mirage", Type: spot.TypeSmoke, X: 600, Y: 600}})

	var selected string
	v.OnSelectSpot(func(id string) { selected = id })

	v.MouseDown(primaryDown(450, 300))
	assert.Equal(t, "s1", selected)
}

func TestMapViewport_PlaceClickMapsToNative(t *testing.T) {
	v := newTestViewport(t)
	v.Machine().SetMode(gesture.ModePlace)
	v.Machine().SetPlacementType(spot.TypeFlash)

	var gotType spot.Type
	var gx, gy float64
	placed := false
	v.OnPlaceSpot(func(tt spot.Type, x, y float64) {
		placed = true
		gotType, gx, gy = tt, x, y
	})

	v.MouseDown(primaryDown(450, 300))
	require.True(t, placed)
	assert.Equal(t, spot.TypeFlash, gotType)
	assert.InDelta(t, 600, gx, 1e-9)
	assert.InDelta(t, 600, gy, 1e-9)
}

func TestMapViewport_EditSecondaryClickDeletesMarker(t *testing.T) {
	v := newTestViewport(t)
	v.Machine().SetMode(gesture.ModeEdit)
	v.SetSpots([]spot.Spot{{ID: "s1", Map: "de_mirage", Type: spot.TypeHE, X: 600, Y: 600}})

	var deleted string
	v.OnDeleteSpot(func(id string) { deleted = id })

	v.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(450, 300)},
		Button:       desktop.MouseButtonSecondary,
	})
	assert.Equal(t, "s1", deleted)
}

func TestMapViewport_DrawGestureEmitsStroke(t *testing.T) {
	v := newTestViewport(t)
	v.Machine().SetMode(gesture.ModeDraw)

	var done sketch.Stroke
	finished := false
	v.OnStrokeDone(func(s sketch.Stroke) {
		finished = true
		done = s
	})

	v.MouseDown(primaryDown(100, 300))
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(200, 300)}})
	v.MouseUp(primaryDown(200, 300))

	require.True(t, finished)
	assert.Equal(t, sketch.ToolPen, done.Tool)
	assert.Equal(t, 2, done.PointCount())
}

func TestMapViewport_SetNativeSizeExtendsDrawArea(t *testing.T) {
	v := newTestViewport(t)
	v.SetNativeSize(2000)
	v.Machine().SetMode(gesture.ModeDraw)

	var done sketch.Stroke
	finished := false
	v.OnStrokeDone(func(s sketch.Stroke) {
		finished = true
		done = s
	})

	// Scale is now 0.45 with stage (0,-150): screen (700,300) is native
	// (1555.6, 1000), beyond the default 1200 space but inside this map's.
	v.MouseDown(primaryDown(700, 300))
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(750, 300)}})
	v.MouseUp(primaryDown(750, 300))

	require.True(t, finished)
	require.Equal(t, 2, done.PointCount())
	assert.Greater(t, done.Points[0], 1200.0)
}

func TestMapViewport_HoverReportsNativePosition(t *testing.T) {
	v := newTestViewport(t)

	var hx, hy float64
	var hok bool
	v.OnHover(func(native geometry.Point2D, ok bool) {
		hx, hy, hok = native.X, native.Y, ok
	})

	v.MouseMoved(primaryDown(450, 300))
	require.True(t, hok)
	assert.InDelta(t, 600, hx, 1e-9)
	assert.InDelta(t, 600, hy, 1e-9)

	v.MouseOut()
	assert.False(t, hok)
}

func TestMapViewport_ScrollZoomsAroundPointer(t *testing.T) {
	v := newTestViewport(t)

	// The native point under the pointer must survive one zoom step.
	var before, after geometry.Point2D
	v.OnHover(func(native geometry.Point2D, ok bool) { before = native })
	v.MouseMoved(primaryDown(450, 300))

	v.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(450, 300)},
		Scrolled:     fyne.NewDelta(0, 1),
	})

	v.OnHover(func(native geometry.Point2D, ok bool) { after = native })
	v.MouseMoved(primaryDown(450, 300))

	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}
