// Package canvas provides the interactive map viewport: radar image with
// pan and zoom, the marker layer, and the freehand sketch layer.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nadebook/internal/gesture"
	"nadebook/internal/sketch"
	"nadebook/internal/spot"
	"nadebook/internal/viewport"
	"nadebook/pkg/geometry"
)

// markerRadius is the screen-space hit/render radius of a spot marker.
const markerRadius = 10.0

// MapViewport displays one map with its spots and strokes. All pointer
// input is translated into gesture events; the widget applies pan/zoom
// itself and reports everything else through callbacks.
type MapViewport struct {
	widget.BaseWidget

	params viewport.Params
	state  viewport.State

	machine *gesture.Machine
	capture *sketch.Capture

	raster *fynecanvas.Raster
	status *fynecanvas.Text

	background image.Image
	statusText string

	spots      []spot.Spot
	strokes    []sketch.Stroke
	selectedID string

	// Drag preview override: while a marker drag is in flight the marker
	// renders here instead of at its stored position.
	previewID  string
	previewPos geometry.Point2D

	// Callbacks
	onSelectSpot func(id string)
	onPlaceSpot  func(t spot.Type, x, y float64)
	onMoveSpot   func(id string, x, y float64)
	onDeleteSpot func(id string)
	onStrokeDone func(s sketch.Stroke)
	onHover      func(native geometry.Point2D, ok bool)
}

var (
	_ desktop.Mouseable = (*MapViewport)(nil)
	_ desktop.Hoverable = (*MapViewport)(nil)
	_ fyne.Draggable    = (*MapViewport)(nil)
	_ fyne.Scrollable   = (*MapViewport)(nil)
)

// NewMapViewport creates an empty viewport with the given zoom parameters
// and capture engine.
func NewMapViewport(params viewport.Params, capture *sketch.Capture) *MapViewport {
	v := &MapViewport{
		params:     params,
		machine:    gesture.NewMachine(capture),
		capture:    capture,
		statusText: "No map loaded",
	}
	v.state = viewport.Reset(v.params)

	v.raster = fynecanvas.NewRaster(v.draw)
	v.status = fynecanvas.NewText(v.statusText, theme.Color(theme.ColorNameForeground))
	v.status.Alignment = fyne.TextAlignCenter

	v.ExtendBaseWidget(v)
	return v
}

// Machine exposes the gesture machine so the toolbar can switch modes and
// adjust placement type, snapping, and stroke width.
func (v *MapViewport) Machine() *gesture.Machine { return v.machine }

// SetBackground installs the decoded radar image. A nil image together with
// a status string shows the loading/error fallback instead.
func (v *MapViewport) SetBackground(img image.Image, status string) {
	v.background = img
	v.statusText = status
	v.state = viewport.Reset(v.params)
	v.Refresh()
}

// SetNativeSize changes the side length of the native coordinate space,
// used when switching to a map with a different radar resolution. The
// capture engine follows so draw gestures are accepted across the whole
// native space.
func (v *MapViewport) SetNativeSize(n float64) {
	if n <= 0 {
		return
	}
	v.capture.SetNativeSize(n)
	if n == v.params.NativeSize {
		return
	}
	v.params.NativeSize = n
	v.state = viewport.Reset(v.params)
	v.Refresh()
}

// SetSpots replaces the rendered marker set.
func (v *MapViewport) SetSpots(spots []spot.Spot) {
	v.spots = spots
	v.Refresh()
}

// SetStrokes replaces the rendered stroke layer.
func (v *MapViewport) SetStrokes(strokes []sketch.Stroke) {
	v.strokes = strokes
	v.Refresh()
}

// SetSelected highlights one marker; an empty id clears the highlight.
func (v *MapViewport) SetSelected(id string) {
	v.selectedID = id
	v.Refresh()
}

// ResetView restores zoom 1.0 with the map centered.
func (v *MapViewport) ResetView() {
	v.state = viewport.Reset(v.params)
	v.Refresh()
}

// OnSelectSpot sets the callback for marker selection in browse mode.
func (v *MapViewport) OnSelectSpot(cb func(id string)) { v.onSelectSpot = cb }

// OnPlaceSpot sets the callback for placement clicks.
func (v *MapViewport) OnPlaceSpot(cb func(t spot.Type, x, y float64)) { v.onPlaceSpot = cb }

// OnMoveSpot sets the callback for marker drag releases. Coordinates are
// native, already snapped when snapping is on.
func (v *MapViewport) OnMoveSpot(cb func(id string, x, y float64)) { v.onMoveSpot = cb }

// OnDeleteSpot sets the callback for marker deletion in edit mode.
func (v *MapViewport) OnDeleteSpot(cb func(id string)) { v.onDeleteSpot = cb }

// OnStrokeDone sets the callback for finalized strokes.
func (v *MapViewport) OnStrokeDone(cb func(s sketch.Stroke)) { v.onStrokeDone = cb }

// OnHover sets the callback fed with the pointer's native position while the
// cursor is over the widget. ok is false when the cursor leaves the widget
// or sits outside the map.
func (v *MapViewport) OnHover(cb func(native geometry.Point2D, ok bool)) { v.onHover = cb }

// MouseDown translates a press into a gesture event.
func (v *MapViewport) MouseDown(ev *desktop.MouseEvent) {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	kind := gesture.PointerDown
	if ev.Button == desktop.MouseButtonSecondary {
		kind = gesture.SecondaryDown
	}
	v.apply(v.machine.Handle(gesture.Event{
		Kind:       kind,
		Pos:        pos,
		HasPos:     true,
		TargetSpot: v.hitTest(pos),
	}, v.frame()))
}

// MouseUp finalizes the gesture in flight.
func (v *MapViewport) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonSecondary {
		return
	}
	v.apply(v.machine.Handle(gesture.Event{Kind: gesture.PointerUp}, v.frame()))
}

// Dragged feeds pointer movement while a button is held.
func (v *MapViewport) Dragged(ev *fyne.DragEvent) {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	v.apply(v.machine.Handle(gesture.Event{
		Kind:   gesture.PointerMove,
		Pos:    pos,
		HasPos: true,
	}, v.frame()))
}

// DragEnd is handled via MouseUp; Fyne requires the method to exist for
// Dragged to fire.
func (v *MapViewport) DragEnd() {}

// MouseIn starts pointer tracking.
func (v *MapViewport) MouseIn(ev *desktop.MouseEvent) { v.hover(ev.Position) }

// MouseMoved reports the pointer's native position while no button is held.
func (v *MapViewport) MouseMoved(ev *desktop.MouseEvent) { v.hover(ev.Position) }

// MouseOut clears the tracked pointer position.
func (v *MapViewport) MouseOut() {
	if v.onHover != nil {
		v.onHover(geometry.Point2D{}, false)
	}
}

func (v *MapViewport) hover(pos fyne.Position) {
	if v.onHover == nil {
		return
	}
	native := v.params.ToNative(v.state, geometry.NewPoint2D(float64(pos.X), float64(pos.Y)))
	v.onHover(native, v.params.InBounds(native))
}

// Scrolled zooms around the pointer.
func (v *MapViewport) Scrolled(ev *fyne.ScrollEvent) {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	a := v.machine.Handle(gesture.Event{
		Kind:       gesture.Wheel,
		Pos:        pos,
		HasPos:     true,
		WheelDelta: float64(ev.Scrolled.DY),
	}, v.frame())
	if a.Kind == gesture.ActionZoom {
		v.state = viewport.ApplyWheel(v.params, v.state, pos, a.Delta)
		v.Refresh()
	}
}

func (v *MapViewport) frame() gesture.Frame {
	return gesture.Frame{Params: v.params, State: v.state}
}

// apply carries out the machine's verdict on one event.
func (v *MapViewport) apply(a gesture.Action) {
	switch a.Kind {
	case gesture.ActionPan:
		v.state = viewport.ApplyDrag(v.params, v.state, a.Dx, a.Dy)
		v.Refresh()
	case gesture.ActionSelect:
		if v.onSelectSpot != nil {
			v.onSelectSpot(a.SpotID)
		}
	case gesture.ActionPlace:
		if v.onPlaceSpot != nil {
			v.onPlaceSpot(a.Type, a.X, a.Y)
		}
	case gesture.ActionDragPreview:
		v.previewID = a.SpotID
		v.previewPos = geometry.NewPoint2D(a.X, a.Y)
		v.Refresh()
	case gesture.ActionMove:
		v.previewID = ""
		if v.onMoveSpot != nil {
			v.onMoveSpot(a.SpotID, a.X, a.Y)
		}
		v.Refresh()
	case gesture.ActionDelete:
		if v.onDeleteSpot != nil {
			v.onDeleteSpot(a.SpotID)
		}
	case gesture.ActionStrokeChanged:
		v.Refresh()
	case gesture.ActionStrokeDone:
		if v.onStrokeDone != nil {
			v.onStrokeDone(a.Stroke)
		}
		v.Refresh()
	}
}

// hitTest returns the ID of the topmost marker under the screen position,
// or "" when the pointer is over the background. Markers render in slice
// order, so the last hit wins.
func (v *MapViewport) hitTest(pos geometry.Point2D) string {
	for i := len(v.spots) - 1; i >= 0; i-- {
		sp := v.spots[i]
		center := v.markerScreenPos(sp)
		if pos.Distance(center) <= markerRadius {
			return sp.ID
		}
	}
	return ""
}

// markerScreenPos returns a marker's render position, honoring an active
// drag preview.
func (v *MapViewport) markerScreenPos(sp spot.Spot) geometry.Point2D {
	native := geometry.NewPoint2D(sp.X, sp.Y)
	if sp.ID == v.previewID {
		native = v.previewPos
	}
	return v.params.ToScreen(v.state, native)
}

// CreateRenderer implements fyne.Widget.
func (v *MapViewport) CreateRenderer() fyne.WidgetRenderer {
	return &mapViewportRenderer{view: v}
}

type mapViewportRenderer struct {
	view *MapViewport
}

func (r *mapViewportRenderer) Layout(size fyne.Size) {
	v := r.view
	v.raster.Resize(size)

	display := geometry.NewSize(float64(size.Width), float64(size.Height))
	if display != v.params.Display && display.Width > 0 && display.Height > 0 {
		v.params.Display = display
		v.state = viewport.Clamp(v.params, v.state)
	}

	r.view.status.Move(fyne.NewPos(0, size.Height/2-r.view.status.MinSize().Height/2))
	r.view.status.Resize(fyne.NewSize(size.Width, r.view.status.MinSize().Height))
}

func (r *mapViewportRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *mapViewportRenderer) Refresh() {
	v := r.view
	if v.background == nil {
		v.status.Text = v.statusText
		v.status.Show()
	} else {
		v.status.Hide()
	}
	v.status.Refresh()
	v.raster.Refresh()
}

func (r *mapViewportRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.view.raster, r.view.status}
}

func (r *mapViewportRenderer) Destroy() {}
