// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nadebook/internal/app"
	"nadebook/internal/media"
	"nadebook/internal/sketch"
	"nadebook/internal/spot"
	"nadebook/internal/store"
	"nadebook/internal/version"
	"nadebook/internal/viewport"
	"nadebook/pkg/geometry"
	"nadebook/ui/canvas"
	"nadebook/ui/panels"
	"nadebook/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	store store.Store
	prefs *prefs.Prefs

	viewport   *canvas.MapViewport
	toolbar    *panels.Toolbar
	spotsPanel *panels.SpotsPanel
	statusBar  *widget.Label
}

// New creates the main window over the application state.
func New(fyneApp fyne.App, state *app.State, st store.Store, library *media.Library,
	p *prefs.Prefs, params viewport.Params, capture *sketch.Capture) *MainWindow {
	win := fyneApp.NewWindow("Nadebook")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		store:  st,
		prefs:  p,
	}

	mw.viewport = canvas.NewMapViewport(params, capture)
	mw.toolbar = panels.NewToolbar(state, mw.viewport)
	mw.toolbar.SetWindow(win)
	mw.spotsPanel = panels.NewSpotsPanel(state, library)
	mw.spotsPanel.SetWindow(win)

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupCallbacks()
	mw.restorePreferences()

	return mw
}

// setupUI creates the main layout: toolbar | viewport | spot list, with a
// status bar at the bottom.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")

	split := container.NewHSplit(
		mw.viewport,
		mw.spotsPanel.Container(),
	)
	split.SetOffset(0.75)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		mw.toolbar.Container(),
		nil,
		split,
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export Map Data...", mw.onExportSnapshot),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset View", func() { mw.viewport.ResetView() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventMapChanged, func(data interface{}) {
		m := mw.state.CurrentMap()
		mw.SetTitle("Nadebook - " + m.Name)
		mw.viewport.SetNativeSize(m.NativeSize)
		mw.viewport.SetBackground(nil, "Loading "+m.Name+"...")
		mw.prefs.SetString(prefs.KeyLastMap, m.Key)
		mw.updateStatus("Map: " + m.Name)
	})

	mw.state.On(app.EventMapImageLoaded, func(data interface{}) {
		switch img := data.(type) {
		case error:
			mw.viewport.SetBackground(nil, "Failed to load map image")
			mw.updateStatus("Map image load failed: " + img.Error())
		case image.Image:
			mw.viewport.SetBackground(img, "")
		}
	})

	mw.state.On(app.EventSpotsChanged, func(data interface{}) {
		spots := mw.state.Spots()
		mw.viewport.SetSpots(spots)
		mw.updateStatus(fmt.Sprintf("%d spots", len(spots)))
	})

	mw.state.On(app.EventStrokesChanged, func(data interface{}) {
		mw.viewport.SetStrokes(mw.state.Strokes())
	})

	mw.state.On(app.EventSelectionChanged, func(data interface{}) {
		if sp, ok := mw.state.SelectedSpot(); ok {
			mw.viewport.SetSelected(sp.ID)
			return
		}
		mw.viewport.SetSelected("")
	})
}

// setupCallbacks routes viewport gestures into state mutations.
func (mw *MainWindow) setupCallbacks() {
	mw.viewport.OnSelectSpot(func(id string) {
		mw.state.SelectSpot(id)
	})
	mw.viewport.OnPlaceSpot(func(t spot.Type, x, y float64) {
		if _, err := mw.state.PlaceSpot(t, x, y); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	})
	mw.viewport.OnMoveSpot(func(id string, x, y float64) {
		if err := mw.state.MoveSpot(id, x, y); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	})
	mw.viewport.OnDeleteSpot(func(id string) {
		if err := mw.state.DeleteSpot(id); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	})
	mw.viewport.OnStrokeDone(func(s sketch.Stroke) {
		if err := mw.state.AddStroke(s); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	})
	mw.viewport.OnHover(func(native geometry.Point2D, ok bool) {
		if !ok {
			mw.updateStatus("")
			return
		}
		mw.updateStatus(fmt.Sprintf("%.0f, %.0f", native.X, native.Y))
	})
}

// restorePreferences applies saved window size, tool settings, and the last
// open map. Falls back to the first catalog entry for a fresh profile.
func (mw *MainWindow) restorePreferences() {
	w := mw.prefs.Float(prefs.KeyWindowW, 1280)
	h := mw.prefs.Float(prefs.KeyWindowH, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))

	snap := mw.prefs.Bool(prefs.KeySnapToGrid, false)
	mw.toolbar.SetSnap(snap)
	mw.viewport.Machine().SetSnap(snap)

	width := mw.prefs.Float(prefs.KeyStrokeWidth, 3)
	mw.toolbar.SetStrokeWidth(width)
	mw.viewport.Machine().SetStrokeWidth(width)

	lastKey := mw.prefs.String(prefs.KeyLastMap)
	if _, err := mw.state.Catalog().Get(lastKey); err != nil {
		maps := mw.state.Catalog().All()
		if len(maps) == 0 {
			mw.updateStatus("No maps configured")
			return
		}
		lastKey = maps[0].Key
	}
	if m, err := mw.state.Catalog().Get(lastKey); err == nil {
		mw.toolbar.SelectMap(m.Name)
	}

	mw.SetCloseIntercept(func() {
		mw.SavePreferences()
		mw.Close()
	})
}

// SavePreferences persists window size and tool settings. Called on close
// and before a hot-reload restart.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowW, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowH, float64(size.Height))
	mw.prefs.SetFloat(prefs.KeyStrokeWidth, mw.viewport.Machine().StrokeWidth())
	mw.prefs.SetBool(prefs.KeySnapToGrid, mw.viewport.Machine().Snap())
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
	}
}

// Viewport exposes the map viewport, used by main to apply config-derived
// tool settings.
func (mw *MainWindow) Viewport() *canvas.MapViewport {
	return mw.viewport
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onExportSnapshot() {
	m := mw.state.CurrentMap()
	if m.Key == "" {
		dialog.ShowInformation("Export", "Select a map first.", mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := store.ExportSnapshot(mw.store, m.Key, path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + path)
	}, mw.Window)
	fd.SetFileName(m.Key + ".json")
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Nadebook",
		fmt.Sprintf("Nadebook v%s\n\n"+
			"Grenade lineup notebook with map annotation.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
