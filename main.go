// Package main provides the entry point for the Image Board application.
package main

import (
	"log"
	"os"
	"time"

	"image-board/internal/app"
	"image-board/internal/version"
	"image-board/ui/mainwindow"
	"image-board/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const (
	appID    = "io.github.imageboard"
	appTitle = "Image Board"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.String())

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.BoardTheme{})

	appPrefs := prefs.Load()
	log.Printf("Preferences: %s", appPrefs.Path())
	cfg := appPrefs.Config()
	appState := app.NewState(app.Options{
		MaxItemDimension: cfg.MaxItemDimension,
		GridColumns:      cfg.GridColumns,
		GridCellSize:     cfg.GridCellSize,
		GridOrigin:       cfg.GridOrigin,
		TopMargin:        cfg.TopMargin,
		PlacementMargin:  cfg.PlacementMargin,
		ZoomStep:         cfg.ZoomStep,
		CopyDelay:        cfg.CopyDelay,
	})

	win := mainwindow.New(fyneApp, appState, appPrefs)
	win.SetTitle(appTitle)

	// Images named on the command line are held until the board is laid
	// out, then land at random spots in the view.
	if len(os.Args) > 1 {
		var sources []app.Source
		for _, path := range os.Args[1:] {
			sources = append(sources, app.FileSource(path))
		}
		appState.Import(sources, nil)
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload flushes preferences periodically and offers a restart when
// the binary is rebuilt.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnTick(func() {
		win.SavePreferencesIfChanged()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(yes bool) {
				if !yes {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	reloader.Start()
}
