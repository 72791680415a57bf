// Package main provides the entry point for the HeatLens viewer.
package main

import (
	"flag"
	"log"
	"time"

	"heatlens/internal/app"
	"heatlens/internal/config"
	"heatlens/internal/version"
	"heatlens/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const appTitle = "HeatLens"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "path to config YAML (defaults apply if missing)")
	mappingPath := flag.String("map", "", "sample mapping file to attach to the dataset")
	flag.Parse()

	log.Printf("Starting %s v%s", appTitle, version.Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config %s: %v", *configPath, err)
	}

	fyneApp := fyneapp.NewWithID("io.heatlens.viewer")
	fyneApp.Settings().SetTheme(&app.HeatLensTheme{})

	state := app.NewState(cfg)
	win := mainwindow.New(fyneApp, state)

	if flag.NArg() > 0 {
		win.OpenDataset(flag.Arg(0), *mappingPath)
	} else {
		win.RestoreLastDataset()
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is recompiled.
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
				if restart {
					log.Println("Hot reload: restarting...")
					if err := reloader.Restart(); err != nil {
						log.Printf("Hot reload: restart failed: %v", err)
					}
					return
				}
				reloader.ResetBaseline()
				reloader.Start()
			}, win.Window)
	})

	reloader.Start()
}
