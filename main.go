package main

import (
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/reddish-app/reddish/internal/config"
	"github.com/reddish-app/reddish/internal/feed"
	"github.com/reddish-app/reddish/internal/imagecache"
	"github.com/reddish-app/reddish/internal/platform"
	"github.com/reddish-app/reddish/internal/reddit"
	"github.com/reddish-app/reddish/internal/secrets"
	"github.com/reddish-app/reddish/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.reddish.app"
	AppName = "Reddish"
)

func main() {
	fmt.Printf("Reddish v%s starting...\n", version)

	myApp := app.NewWithID(AppID)

	settings := config.NewSettings(myApp)
	myApp.Settings().SetTheme(ui.NewReddishTheme(settings.GetDarkMode()))

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	// Initialize services
	client, err := reddit.NewClient(nil)
	if err != nil {
		log.Fatalf("failed to create reddit client: %v", err)
	}

	thumbnailDir := ""
	if cacheDir, err := platform.CacheDir("reddish"); err != nil {
		log.Printf("disk thumbnail cache disabled: %v", err)
	} else {
		thumbnailDir = filepath.Join(cacheDir, "thumbnails")
		if err := platform.CreateDirectoryIfNotExists(thumbnailDir); err != nil {
			log.Printf("disk thumbnail cache disabled: %v", err)
			thumbnailDir = ""
		}
	}

	images, err := imagecache.New(int64(settings.GetImageCacheMB())<<20, thumbnailDir, nil)
	if err != nil {
		log.Fatalf("failed to create image cache: %v", err)
	}

	store := secrets.NewStore()
	feedSvc := feed.NewService(client, settings.GetPageSize(), nil)

	// Create and setup UI
	ui.NewRootUI(myWindow, myApp, feedSvc, images, store)

	// Log in with stored credentials; otherwise the UI shows the welcome
	// screen until the user opens settings.
	if creds, err := store.Load(); err != nil {
		log.Printf("could not read stored credentials: %v", err)
	} else if creds.Complete() {
		feedSvc.Login(creds)
	}

	myWindow.ShowAndRun()
}
