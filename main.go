package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"

	"github.com/ytget/app-organizer/internal/bootstrap"
	"github.com/ytget/app-organizer/internal/config"
	"github.com/ytget/app-organizer/internal/fetch"
	"github.com/ytget/app-organizer/internal/imagecache"
	"github.com/ytget/app-organizer/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.app-organizer"
	AppName = "Android App Organizer"

	WindowWidth  = 900
	WindowHeight = 600
)

func main() {
	services, err := bootstrap.Open(bootstrap.Options{
		ConfigPath: os.Getenv(config.EnvPrefix + "_CONFIG"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
	defer services.Close()

	logger := services.Logger
	logger.Info().Str("version", version).Msg("starting")

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Parallelism is a UI preference; the file config only seeds the CLI
	settings := config.NewSettings(myApp)
	cache := imagecache.New[*canvas.Image]()
	coordinator := fetch.NewCoordinator(services.Fetcher, cache, settings.GetMaxParallelFetches(), logger)

	root := ui.NewRootUI(myWindow, myApp, ui.Options{
		Fetcher:      coordinator,
		Cache:        cache,
		Logger:       logger,
		StorePageURL: services.Source.PageURL,
	})

	myWindow.ShowAndRun()

	// Quitting from the menu bypasses the close intercept
	root.Close()
	logger.Info().Msg("stopped")
}
