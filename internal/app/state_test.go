package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nadebook/internal/gamemap"
	"nadebook/internal/sketch"
	"nadebook/internal/spot"
	"nadebook/internal/store"
)

func newTestState(t *testing.T) (*State, store.Store) {
	t.Helper()
	st := store.NewMemory()
	catalog := gamemap.NewCatalog([]gamemap.Map{
		{Key: "de_mirage", Name: "Mirage", ImagePath: "does-not-exist.png"},
	})
	s := NewState(catalog, st)
	require.NoError(t, s.SetCurrentMap("de_mirage"))
	return s, st
}

func TestState_SetCurrentMapUnknown(t *testing.T) {
	s := NewState(gamemap.NewCatalog(nil), store.NewMemory())
	assert.ErrorIs(t, s.SetCurrentMap("de_nowhere"), gamemap.ErrUnknownMap)
}

func TestState_PlaceSpot(t *testing.T) {
	s, st := newTestState(t)

	var spotEvents, selEvents int
	s.On(EventSpotsChanged, func(interface{}) { spotEvents++ })
	s.On(EventSelectionChanged, func(interface{}) { selEvents++ })

	sp, err := s.PlaceSpot(spot.TypeSmoke, 133.33, 133.33)
	require.NoError(t, err)
	assert.Equal(t, "de_mirage", sp.Map)

	assert.Equal(t, 1, spotEvents)
	assert.Equal(t, 1, selEvents)

	selected, ok := s.SelectedSpot()
	require.True(t, ok, "a freshly placed spot is selected")
	assert.Equal(t, sp.ID, selected.ID)

	persisted, err := st.ListSpots("de_mirage")
	require.NoError(t, err)
	require.Len(t, persisted, 1, "placement writes through to the store")

	_, err = s.PlaceSpot(spot.TypeSmoke, -5, 0)
	assert.ErrorIs(t, err, spot.ErrOutOfBounds)
	assert.Len(t, s.Spots(), 1)
}

func TestState_MoveAndDeleteSpot(t *testing.T) {
	s, st := newTestState(t)

	sp, err := s.PlaceSpot(spot.TypeFlash, 100, 100)
	require.NoError(t, err)

	require.NoError(t, s.MoveSpot(sp.ID, 220, 400))
	assert.Equal(t, 220.0, s.Spots()[0].X)

	persisted, _ := st.ListSpots("de_mirage")
	assert.Equal(t, 220.0, persisted[0].X)

	require.NoError(t, s.DeleteSpot(sp.ID))
	assert.Empty(t, s.Spots())
	_, ok := s.SelectedSpot()
	assert.False(t, ok, "deleting the selected spot clears the selection")

	assert.ErrorIs(t, s.MoveSpot(sp.ID, 0, 0), store.ErrNotFound)
}

func TestState_StrokeLayer(t *testing.T) {
	s, st := newTestState(t)

	var events int
	s.On(EventStrokesChanged, func(interface{}) { events++ })

	a := sketch.Stroke{ID: "a", Tool: sketch.ToolPen, Width: 3, Points: []float64{0, 0, 10, 10}}
	b := sketch.Stroke{ID: "b", Tool: sketch.ToolPen, Width: 3, Points: []float64{5, 5, 6, 6}}
	require.NoError(t, s.AddStroke(a))
	require.NoError(t, s.AddStroke(b))
	assert.Len(t, s.Strokes(), 2)

	require.NoError(t, s.UndoStroke())
	strokes := s.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, "a", strokes[0].ID)

	persisted, err := st.LoadStrokes("de_mirage")
	require.NoError(t, err)
	assert.Len(t, persisted, 1, "undo is persisted")

	require.NoError(t, s.UndoStroke())
	require.NoError(t, s.UndoStroke(), "undo on empty layer is a no-op")
	assert.Empty(t, s.Strokes())

	require.NoError(t, s.AddStroke(a))
	require.NoError(t, s.ClearStrokes())
	assert.Empty(t, s.Strokes())
	assert.Equal(t, 6, events)
}

func TestState_SwitchingMapsReloads(t *testing.T) {
	st := store.NewMemory()
	catalog := gamemap.NewCatalog([]gamemap.Map{
		{Key: "de_mirage", Name: "Mirage"},
		{Key: "de_dust2", Name: "Dust II"},
	})
	s := NewState(catalog, st)
	require.NoError(t, s.SetCurrentMap("de_mirage"))

	_, err := s.PlaceSpot(spot.TypeHE, 50, 50)
	require.NoError(t, err)

	require.NoError(t, s.SetCurrentMap("de_dust2"))
	assert.Empty(t, s.Spots(), "spots are scoped per map")
	_, ok := s.SelectedSpot()
	assert.False(t, ok)

	require.NoError(t, s.SetCurrentMap("de_mirage"))
	assert.Len(t, s.Spots(), 1)
}
