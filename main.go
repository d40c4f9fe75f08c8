// Package main provides the entry point for the Nadebook application.
package main

import (
	"fmt"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"nadebook/internal/app"
	"nadebook/internal/config"
	"nadebook/internal/gamemap"
	"nadebook/internal/logging"
	"nadebook/internal/media"
	"nadebook/internal/sketch"
	"nadebook/internal/store"
	"nadebook/internal/version"
	"nadebook/internal/viewport"
	"nadebook/pkg/geometry"
	"nadebook/ui/mainwindow"
	"nadebook/ui/prefs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "nadebook:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load("."); err != nil {
		return err
	}
	logging.Setup(config.GetString("logLevel"))
	log := logging.Component("main")
	log.Info().Str("version", version.Version).Msg("starting nadebook")

	maps, err := config.GetMaps()
	if err != nil {
		return err
	}
	catalog := gamemap.NewCatalog(maps)
	if catalog.Len() == 0 {
		log.Warn().Msg("no maps configured; add a maps list to " + config.ConfigName)
	}

	storeCfg := config.GetStoreConfig()
	st, err := store.Open(storeCfg.Type, storeCfg.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if err := st.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	library, err := media.NewLibrary(config.GetString("mediaDir"))
	if err != nil {
		return fmt.Errorf("open media library: %w", err)
	}

	state := app.NewState(catalog, st)

	vpCfg := config.GetViewportConfig()
	params := viewport.Params{
		NativeSize: gamemap.DefaultNativeSize,
		Display:    geometry.NewSize(1280, 800),
		MinZoom:    vpCfg.MinZoom,
		MaxZoom:    vpCfg.MaxZoom,
		ZoomStep:   vpCfg.ZoomStep,
	}

	skCfg := config.GetSketchConfig()
	capture := sketch.NewCapture(sketch.CaptureConfig{
		NativeSize:       gamemap.DefaultNativeSize,
		MinPointDistance: skCfg.MinPointDistance,
		SmoothingWindow:  skCfg.SmoothingWindow,
	})

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.NadebookTheme{})

	win := mainwindow.New(fyneApp, state, st, library, prefs.Load(), params, capture)
	win.Viewport().Machine().SetGrid(config.GetFloat64("grid.size"))

	setupHotReload(win)

	win.ShowAndRun()
	return nil
}

// setupHotReload prompts for an in-place restart when a newer binary
// appears, so a dev can rebuild without losing the session.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		return
	}

	reloader.OnNewBinary(func() {
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated. Restart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				win.SavePreferences()
				if err := reloader.Restart(); err != nil {
					dialog.ShowError(err, win)
				}
			}, win)
	})

	reloader.Start()
}
