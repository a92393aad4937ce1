package main

import (
	"context"
	"log"

	"fyne.io/fyne/v2/app"

	trackerapp "jordanella.com/cursor-tracker/internal/app"
	"jordanella.com/cursor-tracker/internal/config"
	"jordanella.com/cursor-tracker/internal/gui"
)

func main() {
	// Create Fyne application
	myApp := app.NewWithID("com.jordanella.cursor-tracker")
	myApp.Settings().SetTheme(&gui.TrackerTheme{})

	mainWindow := myApp.NewWindow("Cursor Tracker")
	mainWindow.Resize(gui.DefaultWindowSize)

	// Load configuration
	cfg, err := config.LoadFromINI(config.DefaultPath)
	if err != nil {
		log.Printf("Warning: Failed to load config: %v", err)
		cfg = config.NewDefaultConfig()
	}

	tracker, err := trackerapp.New(cfg)
	if err != nil {
		log.Fatalf("Failed to start tracker: %v", err)
	}

	// The HTTP surface runs alongside the panel
	serverCtx, stopServer := context.WithCancel(context.Background())
	go func() {
		if err := tracker.Server().ListenAndServe(serverCtx, cfg.Addr()); err != nil {
			tracker.Logger.Error("control server stopped", err)
		}
	}()

	controller := gui.NewController(tracker, mainWindow)

	mainWindow.SetContent(controller.BuildUI())
	mainWindow.SetMaster()
	mainWindow.ShowAndRun()

	// Cleanup on exit
	controller.Shutdown()
	stopServer()
	tracker.Close()
}
