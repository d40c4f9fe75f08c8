package panels

import (
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nadebook/internal/app"
	"nadebook/internal/media"
	"nadebook/internal/spot"
)

// SpotsPanel lists the current map's spots and edits the selected one.
type SpotsPanel struct {
	state     *app.State
	library   *media.Library
	window    fyne.Window
	container fyne.CanvasObject

	spots []spot.Spot

	list        *widget.List
	titleEntry  *widget.Entry
	typeSelect  *widget.Select
	videoLabel  *widget.Label
	attachBtn   *widget.Button
	openBtn     *widget.Button
	clearBtn    *widget.Button
	saveBtn     *widget.Button
	deleteBtn   *widget.Button
	detailCard  *widget.Card
	editingSpot string
}

// NewSpotsPanel creates the spot list panel.
func NewSpotsPanel(state *app.State, library *media.Library) *SpotsPanel {
	sp := &SpotsPanel{
		state:   state,
		library: library,
		spots:   state.Spots(),
	}

	sp.list = widget.NewList(
		func() int {
			return len(sp.spots)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("spot")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(sp.spots) {
				return
			}
			s := sp.spots[id]
			title := s.Title
			if title == "" {
				title = "(untitled)"
			}
			obj.(*widget.Label).SetText(fmt.Sprintf("[%s] %s", s.Type, title))
		},
	)
	sp.list.OnSelected = func(id widget.ListItemID) {
		if id < len(sp.spots) {
			sp.state.SelectSpot(sp.spots[id].ID)
		}
	}

	sp.titleEntry = widget.NewEntry()
	sp.titleEntry.SetPlaceHolder("Lineup title")

	var typeNames []string
	for _, t := range spot.Types {
		typeNames = append(typeNames, string(t))
	}
	sp.typeSelect = widget.NewSelect(typeNames, nil)

	sp.videoLabel = widget.NewLabel("No video attached")
	sp.videoLabel.Wrapping = fyne.TextWrapWord

	sp.attachBtn = widget.NewButton("Attach Video...", sp.onAttachVideo)
	sp.openBtn = widget.NewButton("Open", sp.onOpenVideo)
	sp.clearBtn = widget.NewButton("Clear", sp.onClearVideo)
	sp.saveBtn = widget.NewButton("Save", sp.onSave)
	sp.deleteBtn = widget.NewButton("Delete", sp.onDelete)

	sp.detailCard = widget.NewCard("Spot", "", container.NewVBox(
		sp.titleEntry,
		sp.typeSelect,
		sp.videoLabel,
		sp.attachBtn,
		container.NewHBox(sp.openBtn, sp.clearBtn),
		container.NewHBox(sp.saveBtn, sp.deleteBtn),
	))
	sp.setEditing(spot.Spot{}, false)

	sp.container = container.NewBorder(nil, sp.detailCard, nil, nil, sp.list)

	state.On(app.EventSpotsChanged, func(data interface{}) {
		sp.reload()
	})
	state.On(app.EventSelectionChanged, func(data interface{}) {
		selected, ok := state.SelectedSpot()
		sp.setEditing(selected, ok)
		if ok {
			for i, s := range sp.spots {
				if s.ID == selected.ID {
					sp.list.Select(i)
					return
				}
			}
		}
		sp.list.UnselectAll()
	})
	state.On(app.EventMapChanged, func(data interface{}) {
		sp.reload()
	})

	return sp
}

// SetWindow sets the parent window for dialogs.
func (sp *SpotsPanel) SetWindow(w fyne.Window) {
	sp.window = w
}

// Container returns the panel container.
func (sp *SpotsPanel) Container() fyne.CanvasObject {
	return sp.container
}

func (sp *SpotsPanel) reload() {
	sp.spots = sp.state.Spots()
	sp.list.Refresh()
}

func (sp *SpotsPanel) setEditing(s spot.Spot, ok bool) {
	if !ok {
		sp.editingSpot = ""
		sp.titleEntry.SetText("")
		sp.titleEntry.Disable()
		sp.typeSelect.ClearSelected()
		sp.typeSelect.Disable()
		sp.videoLabel.SetText("No video attached")
		sp.attachBtn.Disable()
		sp.openBtn.Disable()
		sp.clearBtn.Disable()
		sp.saveBtn.Disable()
		sp.deleteBtn.Disable()
		return
	}
	sp.editingSpot = s.ID
	sp.titleEntry.SetText(s.Title)
	sp.titleEntry.Enable()
	sp.typeSelect.SetSelected(string(s.Type))
	sp.typeSelect.Enable()
	if s.VideoPath != "" {
		sp.videoLabel.SetText(s.VideoPath)
		sp.openBtn.Enable()
		sp.clearBtn.Enable()
	} else {
		sp.videoLabel.SetText("No video attached")
		sp.openBtn.Disable()
		sp.clearBtn.Disable()
	}
	sp.attachBtn.Enable()
	sp.saveBtn.Enable()
	sp.deleteBtn.Enable()
}

func (sp *SpotsPanel) onSave() {
	s, ok := sp.current()
	if !ok {
		return
	}
	s.Title = sp.titleEntry.Text
	if sp.typeSelect.Selected != "" {
		s.Type = spot.Type(sp.typeSelect.Selected)
	}
	if err := sp.state.UpdateSpot(s); err != nil && sp.window != nil {
		dialog.ShowError(err, sp.window)
	}
}

func (sp *SpotsPanel) onDelete() {
	s, ok := sp.current()
	if !ok || sp.window == nil {
		return
	}
	dialog.ShowConfirm("Delete spot", "Remove this spot and its lineup?", func(confirmed bool) {
		if !confirmed {
			return
		}
		if s.VideoPath != "" {
			_ = sp.library.Remove(s.VideoPath)
		}
		if err := sp.state.DeleteSpot(s.ID); err != nil {
			dialog.ShowError(err, sp.window)
		}
	}, sp.window)
}

func (sp *SpotsPanel) onAttachVideo() {
	s, ok := sp.current()
	if !ok || sp.window == nil {
		return
	}
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, sp.window)
			return
		}
		if reader == nil {
			return
		}
		src := reader.URI().Path()
		_ = reader.Close()

		name, err := sp.library.Import(src)
		if err != nil {
			dialog.ShowError(err, sp.window)
			return
		}
		if s.VideoPath != "" {
			_ = sp.library.Remove(s.VideoPath)
		}
		s.VideoPath = name
		if err := sp.state.UpdateSpot(s); err != nil {
			dialog.ShowError(err, sp.window)
			return
		}
		sp.videoLabel.SetText(name)
		sp.openBtn.Enable()
		sp.clearBtn.Enable()
	}, sp.window)
}

// onOpenVideo hands the clip to the system video player.
func (sp *SpotsPanel) onOpenVideo() {
	s, ok := sp.current()
	if !ok || s.VideoPath == "" {
		return
	}
	path, err := sp.library.Resolve(s.VideoPath)
	if err != nil {
		if sp.window != nil {
			dialog.ShowError(err, sp.window)
		}
		return
	}
	if err := fyne.CurrentApp().OpenURL(&url.URL{Scheme: "file", Path: path}); err != nil && sp.window != nil {
		dialog.ShowError(err, sp.window)
	}
}

func (sp *SpotsPanel) onClearVideo() {
	s, ok := sp.current()
	if !ok || s.VideoPath == "" {
		return
	}
	_ = sp.library.Remove(s.VideoPath)
	s.VideoPath = ""
	if err := sp.state.UpdateSpot(s); err != nil {
		if sp.window != nil {
			dialog.ShowError(err, sp.window)
		}
		return
	}
	sp.videoLabel.SetText("No video attached")
	sp.openBtn.Disable()
	sp.clearBtn.Disable()
}

func (sp *SpotsPanel) current() (spot.Spot, bool) {
	if sp.editingSpot == "" {
		return spot.Spot{}, false
	}
	for _, s := range sp.spots {
		if s.ID == sp.editingSpot {
			return s, true
		}
	}
	return spot.Spot{}, false
}
