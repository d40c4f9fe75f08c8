package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nadebook/internal/sketch"
	"nadebook/internal/spot"
	"nadebook/internal/viewport"
	"nadebook/pkg/geometry"
)

func testFrame() Frame {
	p := viewport.Params{
		NativeSize: 1200,
		Display:    geometry.NewSize(900, 600),
		MinZoom:    0.5,
		MaxZoom:    8.0,
		ZoomStep:   1.08,
	}
	// Zoom 1, stage at the origin: effective scale 0.75.
	return Frame{Params: p, State: viewport.State{Zoom: 1}}
}

func newTestMachine() *Machine {
	return NewMachine(sketch.NewCapture(sketch.DefaultCaptureConfig(1200)))
}

func down(x, y float64, target string) Event {
	return Event{Kind: PointerDown, Pos: geometry.NewPoint2D(x, y), HasPos: true, TargetSpot: target}
}

func move(x, y float64) Event {
	return Event{Kind: PointerMove, Pos: geometry.NewPoint2D(x, y), HasPos: true}
}

func up() Event {
	return Event{Kind: PointerUp}
}

func TestMachine_DrawOnLargerNativeSpace(t *testing.T) {
	capture := sketch.NewCapture(sketch.DefaultCaptureConfig(1200))
	capture.SetNativeSize(2000)
	m := NewMachine(capture)
	m.SetMode(ModeDraw)

	f := testFrame()
	f.Params.NativeSize = 2000
	f.Params.Display = geometry.NewSize(1000, 1000)

	// Effective scale 0.5: screen (750,750) is native (1500,1500), in bounds
	// on this map even though it lies beyond the default native space.
	a := m.Handle(down(750, 750, ""), f)
	require.Equal(t, ActionStrokeChanged, a.Kind)
	require.True(t, capture.Active())

	a = m.Handle(up(), f)
	require.Equal(t, ActionStrokeDone, a.Kind)
	assert.Equal(t, []float64{1500, 1500}, a.Stroke.Points)
}

func TestMachine_PlaceScenario(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModePlace)
	m.SetPlacementType(spot.TypeSmoke)
	f := testFrame()

	a := m.Handle(down(100, 100, ""), f)
	require.Equal(t, ActionPlace, a.Kind)
	assert.Equal(t, spot.TypeSmoke, a.Type)
	assert.InDelta(t, 133.33, a.X, 0.01)
	assert.InDelta(t, 133.33, a.Y, 0.01)
}

func TestMachine_PlaceRejectsOutOfBounds(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModePlace)
	f := testFrame()

	// Native 1200 maps to screen 900; anything right of that is off-map.
	a := m.Handle(down(901, 100, ""), f)
	assert.Equal(t, ActionNone, a.Kind)
}

func TestMachine_PlaceIgnoresMarkerHits(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModePlace)

	a := m.Handle(down(100, 100, "spot-1"), testFrame())
	assert.Equal(t, ActionNone, a.Kind)
}

func TestMachine_BrowseSelectAndPan(t *testing.T) {
	m := newTestMachine()
	f := testFrame()

	a := m.Handle(down(50, 50, "spot-1"), f)
	require.Equal(t, ActionSelect, a.Kind)
	assert.Equal(t, "spot-1", a.SpotID)

	// Background press starts a pan; movement yields deltas.
	require.Equal(t, ActionNone, m.Handle(down(100, 100, ""), f).Kind)
	a = m.Handle(move(110, 95), f)
	require.Equal(t, ActionPan, a.Kind)
	assert.Equal(t, 10.0, a.Dx)
	assert.Equal(t, -5.0, a.Dy)

	assert.Equal(t, ActionNone, m.Handle(up(), f).Kind)
	assert.Equal(t, ActionNone, m.Handle(move(200, 200), f).Kind, "no pan after release")
}

func TestMachine_EditDragSnap(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModeEdit)
	m.SetSnap(true)
	m.SetGrid(20)
	f := testFrame()

	require.Equal(t, ActionNone, m.Handle(down(150, 300, "spot-1"), f).Kind)

	// Drag to the screen position of native (213, 407).
	a := m.Handle(move(213*0.75, 407*0.75), f)
	require.Equal(t, ActionDragPreview, a.Kind)
	assert.Equal(t, "spot-1", a.SpotID)
	assert.InDelta(t, 213, a.X, 1e-9, "preview reports the raw position")
	assert.InDelta(t, 407, a.Y, 1e-9)

	a = m.Handle(up(), f)
	require.Equal(t, ActionMove, a.Kind)
	assert.Equal(t, "spot-1", a.SpotID)
	assert.InDelta(t, 220, a.X, 1e-9)
	assert.InDelta(t, 400, a.Y, 1e-9)
}

func TestMachine_EditDragWithoutSnap(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModeEdit)
	f := testFrame()

	m.Handle(down(150, 300, "spot-1"), f)
	m.Handle(move(213*0.75, 407*0.75), f)

	a := m.Handle(up(), f)
	require.Equal(t, ActionMove, a.Kind)
	assert.InDelta(t, 213, a.X, 1e-9)
	assert.InDelta(t, 407, a.Y, 1e-9)
}

func TestMachine_EditClickWithoutDragMovesNothing(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModeEdit)
	f := testFrame()

	m.Handle(down(150, 300, "spot-1"), f)
	a := m.Handle(up(), f)
	assert.Equal(t, ActionNone, a.Kind)
}

func TestMachine_EditDragIgnoresOutOfBounds(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModeEdit)
	f := testFrame()

	m.Handle(down(150, 300, "spot-1"), f)
	m.Handle(move(300, 300), f)

	// Off-map movement keeps the last valid position.
	assert.Equal(t, ActionNone, m.Handle(move(2000, 300), f).Kind)

	a := m.Handle(up(), f)
	require.Equal(t, ActionMove, a.Kind)
	assert.InDelta(t, 400, a.X, 1e-9)
	assert.InDelta(t, 400, a.Y, 1e-9)
}

func TestMachine_EditBackgroundPans(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModeEdit)
	f := testFrame()

	require.Equal(t, ActionNone, m.Handle(down(100, 100, ""), f).Kind)
	a := m.Handle(move(90, 120), f)
	require.Equal(t, ActionPan, a.Kind)
	assert.Equal(t, -10.0, a.Dx)
	assert.Equal(t, 20.0, a.Dy)
}

func TestMachine_EditSecondaryDeletes(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModeEdit)
	f := testFrame()

	a := m.Handle(Event{Kind: SecondaryDown, Pos: geometry.NewPoint2D(50, 50), HasPos: true, TargetSpot: "spot-1"}, f)
	require.Equal(t, ActionDelete, a.Kind)
	assert.Equal(t, "spot-1", a.SpotID)

	// Background right-click and right-clicks outside edit mode do nothing.
	assert.Equal(t, ActionNone, m.Handle(Event{Kind: SecondaryDown, HasPos: true}, f).Kind)
	m.SetMode(ModeBrowse)
	a = m.Handle(Event{Kind: SecondaryDown, HasPos: true, TargetSpot: "spot-1"}, f)
	assert.Equal(t, ActionNone, a.Kind)
}

func TestMachine_DrawCapturesStroke(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModeDraw)
	f := testFrame()

	require.Equal(t, ActionStrokeChanged, m.Handle(down(100, 100, ""), f).Kind)
	require.Equal(t, ActionStrokeChanged, m.Handle(move(120, 100), f).Kind)

	a := m.Handle(up(), f)
	require.Equal(t, ActionStrokeDone, a.Kind)
	assert.Equal(t, 2, a.Stroke.PointCount())
	assert.Equal(t, sketch.ToolPen, a.Stroke.Tool)
}

func TestMachine_DrawOnMarkerStillDraws(t *testing.T) {
	// In draw mode all pointer input goes to the capture engine, marker or
	// not.
	m := newTestMachine()
	m.SetMode(ModeDraw)

	a := m.Handle(down(100, 100, "spot-1"), testFrame())
	assert.Equal(t, ActionStrokeChanged, a.Kind)
}

func TestMachine_ModeIsolation(t *testing.T) {
	f := testFrame()

	// Browse: no placement or drawing side effects for any sequence.
	m := newTestMachine()
	for _, a := range []Action{
		m.Handle(down(100, 100, ""), f),
		m.Handle(move(150, 150), f),
		m.Handle(up(), f),
	} {
		assert.NotEqual(t, ActionPlace, a.Kind)
		assert.NotEqual(t, ActionStrokeChanged, a.Kind)
		assert.NotEqual(t, ActionStrokeDone, a.Kind)
	}

	// Draw: marker drag and placement never fire.
	m = newTestMachine()
	m.SetMode(ModeDraw)
	for _, a := range []Action{
		m.Handle(down(100, 100, "spot-1"), f),
		m.Handle(move(150, 150), f),
		m.Handle(up(), f),
	} {
		assert.NotEqual(t, ActionPlace, a.Kind)
		assert.NotEqual(t, ActionMove, a.Kind)
		assert.NotEqual(t, ActionSelect, a.Kind)
	}
}

func TestMachine_LeavingDrawCancelsLiveStroke(t *testing.T) {
	capture := sketch.NewCapture(sketch.DefaultCaptureConfig(1200))
	m := NewMachine(capture)
	m.SetMode(ModeDraw)
	f := testFrame()

	m.Handle(down(100, 100, ""), f)
	require.True(t, capture.Active())

	m.SetMode(ModeBrowse)
	assert.False(t, capture.Active(), "mode change discards the live stroke")
	assert.Equal(t, ActionNone, m.Handle(up(), f).Kind, "nothing to finalize")
}

func TestMachine_MissingPointerPositionIsNoOp(t *testing.T) {
	m := newTestMachine()
	m.SetMode(ModePlace)
	f := testFrame()

	assert.Equal(t, ActionNone, m.Handle(Event{Kind: PointerDown}, f).Kind)
	assert.Equal(t, ActionNone, m.Handle(Event{Kind: PointerMove}, f).Kind)
	assert.Equal(t, ActionNone, m.Handle(Event{Kind: Wheel, WheelDelta: 1}, f).Kind)
}

func TestMachine_WheelZoomsInEveryMode(t *testing.T) {
	f := testFrame()
	for _, mode := range []Mode{ModeBrowse, ModePlace, ModeEdit, ModeDraw} {
		m := newTestMachine()
		m.SetMode(mode)
		a := m.Handle(Event{Kind: Wheel, Pos: geometry.NewPoint2D(100, 100), HasPos: true, WheelDelta: 1}, f)
		assert.Equal(t, ActionZoom, a.Kind, "mode %s", mode)
		assert.Equal(t, 1.0, a.Delta)
	}
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 220.0, Snap(213, 20))
	assert.Equal(t, 400.0, Snap(407, 20))
	assert.Equal(t, 0.0, Snap(9.9, 20))
	assert.Equal(t, 213.0, Snap(213, 0), "non-positive grid disables snapping")
}
