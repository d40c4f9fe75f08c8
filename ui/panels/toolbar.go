// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nadebook/internal/app"
	"nadebook/internal/gesture"
	"nadebook/internal/spot"
	"nadebook/ui/canvas"
)

// modeNames maps toolbar labels to interaction modes, in display order.
var modeNames = []string{"Browse", "Place", "Edit", "Draw"}

var modeByName = map[string]gesture.Mode{
	"Browse": gesture.ModeBrowse,
	"Place":  gesture.ModePlace,
	"Edit":   gesture.ModeEdit,
	"Draw":   gesture.ModeDraw,
}

// Toolbar holds the map selector, interaction mode switch, and tool
// settings.
type Toolbar struct {
	state     *app.State
	view      *canvas.MapViewport
	window    fyne.Window
	container fyne.CanvasObject

	mapSelect   *widget.Select
	modeSelect  *widget.RadioGroup
	typeSelect  *widget.Select
	snapCheck   *widget.Check
	widthSlider *widget.Slider
	widthLabel  *widget.Label
}

// NewToolbar creates the toolbar over the given state and viewport.
func NewToolbar(state *app.State, view *canvas.MapViewport) *Toolbar {
	tb := &Toolbar{
		state: state,
		view:  view,
	}
	machine := view.Machine()

	var mapNames []string
	nameToKey := make(map[string]string)
	for _, m := range state.Catalog().All() {
		mapNames = append(mapNames, m.Name)
		nameToKey[m.Name] = m.Key
	}
	tb.mapSelect = widget.NewSelect(mapNames, func(selected string) {
		key, ok := nameToKey[selected]
		if !ok {
			return
		}
		if err := state.SetCurrentMap(key); err != nil && tb.window != nil {
			dialog.ShowError(err, tb.window)
		}
	})

	tb.modeSelect = widget.NewRadioGroup(modeNames, func(selected string) {
		if mode, ok := modeByName[selected]; ok {
			machine.SetMode(mode)
		}
	})
	tb.modeSelect.Horizontal = true
	tb.modeSelect.SetSelected("Browse")

	var typeNames []string
	for _, t := range spot.Types {
		typeNames = append(typeNames, string(t))
	}
	tb.typeSelect = widget.NewSelect(typeNames, func(selected string) {
		machine.SetPlacementType(spot.Type(selected))
	})
	tb.typeSelect.SetSelected(string(spot.TypeSmoke))

	tb.snapCheck = widget.NewCheck("Snap to grid", func(checked bool) {
		machine.SetSnap(checked)
	})

	tb.widthLabel = widget.NewLabel(fmt.Sprintf("Width: %.0f", machine.StrokeWidth()))
	tb.widthSlider = widget.NewSlider(1, 12)
	tb.widthSlider.SetValue(machine.StrokeWidth())
	tb.widthSlider.OnChanged = func(val float64) {
		machine.SetStrokeWidth(val)
		tb.widthLabel.SetText(fmt.Sprintf("Width: %.0f", val))
	}

	undoButton := widget.NewButton("Undo Stroke", func() {
		if err := state.UndoStroke(); err != nil && tb.window != nil {
			dialog.ShowError(err, tb.window)
		}
	})
	clearButton := widget.NewButton("Clear Strokes", func() {
		if tb.window == nil {
			return
		}
		dialog.ShowConfirm("Clear strokes", "Remove every stroke on this map?", func(ok bool) {
			if !ok {
				return
			}
			if err := state.ClearStrokes(); err != nil {
				dialog.ShowError(err, tb.window)
			}
		}, tb.window)
	})
	resetButton := widget.NewButton("Reset View", func() {
		view.ResetView()
	})

	tb.container = container.NewVBox(
		widget.NewCard("Map", "", tb.mapSelect),
		widget.NewCard("Mode", "", tb.modeSelect),
		widget.NewCard("Placement", "", container.NewVBox(
			tb.typeSelect,
			tb.snapCheck,
		)),
		widget.NewCard("Sketch", "", container.NewVBox(
			tb.widthLabel,
			tb.widthSlider,
			container.NewHBox(undoButton, clearButton),
		)),
		resetButton,
	)

	state.On(app.EventMapChanged, func(data interface{}) {
		m := state.CurrentMap()
		if tb.mapSelect.Selected != m.Name {
			tb.mapSelect.SetSelected(m.Name)
		}
	})

	return tb
}

// SetWindow sets the parent window for dialogs.
func (tb *Toolbar) SetWindow(w fyne.Window) {
	tb.window = w
}

// SetSnap updates the snap checkbox, used when restoring preferences.
func (tb *Toolbar) SetSnap(enabled bool) {
	tb.snapCheck.SetChecked(enabled)
}

// SetStrokeWidth updates the width slider, used when restoring preferences.
func (tb *Toolbar) SetStrokeWidth(w float64) {
	tb.widthSlider.SetValue(w)
}

// SelectMap sets the map dropdown, used when restoring preferences.
func (tb *Toolbar) SelectMap(name string) {
	tb.mapSelect.SetSelected(name)
}

// Container returns the panel container.
func (tb *Toolbar) Container() fyne.CanvasObject {
	return tb.container
}
