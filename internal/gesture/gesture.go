// Package gesture interprets pointer and wheel input against the current
// interaction mode. It is the single place that decides whether a
// down/move/up sequence pans the viewport, places a marker, drags a marker,
// draws a stroke, or selects a spot.
//
// The machine is independent of any UI toolkit: the widget layer translates
// toolkit events into Events (performing marker hit testing to fill
// TargetSpot) and applies the returned Actions. Invalid mode/gesture
// combinations and events without a usable pointer position resolve to
// ActionNone, never to an error.
package gesture

import (
	"math"

	"nadebook/internal/sketch"
	"nadebook/internal/spot"
	"nadebook/internal/viewport"
	"nadebook/pkg/geometry"
)

// Mode is the active interaction mode. Exactly one is active at a time.
type Mode int

const (
	ModeBrowse Mode = iota
	ModePlace
	ModeEdit
	ModeDraw
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModePlace:
		return "place"
	case ModeEdit:
		return "edit"
	case ModeDraw:
		return "draw"
	}
	return "unknown"
}

// EventKind classifies an input event.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	SecondaryDown
	Wheel
)

// Event is one toolkit-independent input event in screen coordinates.
// TargetSpot carries the ID of the topmost marker under the pointer, or ""
// when the pointer is over the background; the widget fills it from its
// rendered marker layer so shapes win over coordinate math.
type Event struct {
	Kind       EventKind
	Pos        geometry.Point2D
	HasPos     bool
	WheelDelta float64
	TargetSpot string
}

// ActionKind classifies what the widget/host must do in response.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionPan
	ActionZoom
	ActionSelect
	ActionPlace
	ActionDragPreview
	ActionMove
	ActionDelete
	ActionStrokeChanged
	ActionStrokeDone
)

// Action is the machine's verdict on one event. Only the fields relevant to
// the Kind are set.
type Action struct {
	Kind   ActionKind
	SpotID string
	Type   spot.Type
	X, Y   float64
	Dx, Dy float64
	Delta  float64
	Stroke sketch.Stroke
}

// Frame is the viewport snapshot an event is interpreted under.
type Frame struct {
	Params viewport.Params
	State  viewport.State
}

// Machine holds the current mode, placement/snap settings, and in-progress
// gesture state. It owns the stroke capture engine while drawing.
type Machine struct {
	mode        Mode
	placement   spot.Type
	snap        bool
	grid        float64
	strokeWidth float64

	capture *sketch.Capture

	panning   bool
	lastPan   geometry.Point2D
	dragSpot  string
	dragPos   geometry.Point2D
	dragMoved bool
}

// NewMachine creates a machine in browse mode with the given capture engine.
func NewMachine(capture *sketch.Capture) *Machine {
	return &Machine{
		placement:   spot.TypeSmoke,
		grid:        20,
		strokeWidth: 3,
		capture:     capture,
	}
}

// Mode returns the active interaction mode.
func (m *Machine) Mode() Mode { return m.mode }

// SetMode switches the interaction mode. Leaving draw mode cancels any
// stroke in progress; the live stroke is discarded, not finalized. Any
// in-progress pan or marker drag is abandoned.
func (m *Machine) SetMode(mode Mode) {
	if m.mode == ModeDraw && mode != ModeDraw {
		m.capture.Cancel()
	}
	m.mode = mode
	m.panning = false
	m.dragSpot = ""
}

// SetPlacementType selects the spot type emitted by placement clicks.
func (m *Machine) SetPlacementType(t spot.Type) { m.placement = t }

// PlacementType returns the active placement type.
func (m *Machine) PlacementType() spot.Type { return m.placement }

// SetSnap enables or disables grid snapping of marker drag releases.
func (m *Machine) SetSnap(enabled bool) { m.snap = enabled }

// Snap reports whether grid snapping is enabled.
func (m *Machine) Snap() bool { return m.snap }

// SetGrid sets the snap grid spacing in native units.
func (m *Machine) SetGrid(size float64) { m.grid = size }

// SetStrokeWidth sets the pen width for new strokes.
func (m *Machine) SetStrokeWidth(w float64) { m.strokeWidth = w }

// StrokeWidth returns the pen width used for new strokes.
func (m *Machine) StrokeWidth() float64 { return m.strokeWidth }

// Handle interprets one event under the given viewport frame and returns
// the resulting action.
func (m *Machine) Handle(ev Event, f Frame) Action {
	switch ev.Kind {
	case Wheel:
		// Zoom works the same in every mode, anchored at the pointer.
		if !ev.HasPos {
			return Action{}
		}
		return Action{Kind: ActionZoom, Delta: ev.WheelDelta}
	case PointerDown:
		return m.pointerDown(ev, f)
	case PointerMove:
		return m.pointerMove(ev, f)
	case PointerUp:
		return m.pointerUp()
	case SecondaryDown:
		if m.mode == ModeEdit && ev.TargetSpot != "" {
			return Action{Kind: ActionDelete, SpotID: ev.TargetSpot}
		}
	}
	return Action{}
}

func (m *Machine) pointerDown(ev Event, f Frame) Action {
	if !ev.HasPos {
		return Action{}
	}

	switch m.mode {
	case ModeBrowse:
		if ev.TargetSpot != "" {
			return Action{Kind: ActionSelect, SpotID: ev.TargetSpot}
		}
		m.panning = true
		m.lastPan = ev.Pos

	case ModePlace:
		if ev.TargetSpot != "" {
			return Action{}
		}
		native := f.Params.ToNative(f.State, ev.Pos)
		if !f.Params.InBounds(native) {
			return Action{}
		}
		return Action{Kind: ActionPlace, Type: m.placement, X: native.X, Y: native.Y}

	case ModeEdit:
		if ev.TargetSpot != "" {
			m.dragSpot = ev.TargetSpot
			m.dragPos = f.Params.ToNative(f.State, ev.Pos)
			m.dragMoved = false
			return Action{}
		}
		m.panning = true
		m.lastPan = ev.Pos

	case ModeDraw:
		native := f.Params.ToNative(f.State, ev.Pos)
		if m.capture.Start(native, m.strokeWidth) {
			return Action{Kind: ActionStrokeChanged}
		}
	}
	return Action{}
}

func (m *Machine) pointerMove(ev Event, f Frame) Action {
	if !ev.HasPos {
		return Action{}
	}

	if m.panning {
		dx := ev.Pos.X - m.lastPan.X
		dy := ev.Pos.Y - m.lastPan.Y
		m.lastPan = ev.Pos
		return Action{Kind: ActionPan, Dx: dx, Dy: dy}
	}

	switch m.mode {
	case ModeEdit:
		if m.dragSpot == "" {
			return Action{}
		}
		native := f.Params.ToNative(f.State, ev.Pos)
		if !f.Params.InBounds(native) {
			// Keep the last valid position; out-of-bounds input is ignored.
			return Action{}
		}
		m.dragPos = native
		m.dragMoved = true
		return Action{Kind: ActionDragPreview, SpotID: m.dragSpot, X: native.X, Y: native.Y}

	case ModeDraw:
		if !m.capture.Active() {
			return Action{}
		}
		if m.capture.Append(f.Params.ToNative(f.State, ev.Pos)) {
			return Action{Kind: ActionStrokeChanged}
		}
	}
	return Action{}
}

func (m *Machine) pointerUp() Action {
	m.panning = false

	if m.dragSpot != "" {
		id := m.dragSpot
		moved := m.dragMoved
		m.dragSpot = ""
		m.dragMoved = false
		if !moved {
			// A click that never dragged leaves the marker where it is.
			return Action{}
		}
		x, y := m.dragPos.X, m.dragPos.Y
		if m.snap {
			x = Snap(x, m.grid)
			y = Snap(y, m.grid)
		}
		return Action{Kind: ActionMove, SpotID: id, X: x, Y: y}
	}

	if done, ok := m.capture.Finish(); ok {
		return Action{Kind: ActionStrokeDone, Stroke: done}
	}
	return Action{}
}

// Snap rounds a coordinate to the nearest grid intersection. A non-positive
// grid disables snapping.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}
