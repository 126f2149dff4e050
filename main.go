// Package main provides the entry point for the GoPaint application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"gopaint/internal/app"
	"gopaint/internal/editor"
	"gopaint/internal/version"
	"gopaint/ui/mainwindow"
	"gopaint/ui/prefs"
)

const appTitle = "GoPaint"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.gopaint")
	fyneApp.Settings().SetTheme(&app.PaintTheme{})

	appPrefs := prefs.Load()
	ed := editor.New(log.Default(), editor.NewClipboard())

	win := mainwindow.New(fyneApp, ed, appPrefs)

	if len(os.Args) > 1 {
		if err := win.OpenFile(os.Args[1]); err != nil {
			log.Printf("Failed to open %s: %v", os.Args[1], err)
		}
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload restarts into a freshly compiled binary during development.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}
	log.Printf("Hot reload: watching %s", reloader.ExecPath())

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	reloader.Start()
}
