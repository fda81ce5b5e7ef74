package ui

import (
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/reddish-app/reddish/internal/config"
	"github.com/reddish-app/reddish/internal/feed"
	"github.com/reddish-app/reddish/internal/imagecache"
	"github.com/reddish-app/reddish/internal/model"
	"github.com/reddish-app/reddish/internal/secrets"
)

// RootUI represents the main UI structure
type RootUI struct {
	window   fyne.Window
	feedSvc  *feed.Service
	images   *imagecache.Cache
	settings *config.Settings
	store    *secrets.Store

	// snapshot is the last feed state received; guarded because the service
	// delivers updates from its own goroutines.
	snapMu   sync.Mutex
	snapshot feed.Snapshot

	// UI components
	postList     *widget.List
	subredditBar *fyne.Container
	subredditScr *container.Scroll
	feedLabel    *widget.Label
	spinner      *widget.ProgressBarInfinite
	errorLabel   *widget.Label
	retryBtn     *widget.Button
	errorBanner  *fyne.Container
	welcomePanel *fyne.Container
	listArea     *fyne.Container
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, feedSvc *feed.Service, images *imagecache.Cache, store *secrets.Store) *RootUI {
	settings := config.NewSettings(app)

	ui := &RootUI{
		window:   window,
		feedSvc:  feedSvc,
		images:   images,
		settings: settings,
		store:    store,
		snapshot: feedSvc.Snapshot(),
	}

	window.SetTitle("Reddish")

	ui.feedSvc.SetUpdateCallback(ui.onFeedUpdate)

	ui.setupUI()
	log.Printf("RootUI initialized")
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	homeBtn := widget.NewButton(IconHome+" Home", func() {
		ui.feedSvc.Open(model.FeedHome)
	})
	homeBtn.Importance = widget.LowImportance

	refreshBtn := widget.NewButton(IconRefresh, func() {
		ui.feedSvc.Refresh()
	})
	refreshBtn.Importance = widget.LowImportance

	settingsBtn := widget.NewButton(IconSettings, ui.ShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.feedLabel = widget.NewLabel("")
	ui.feedLabel.TextStyle = fyne.TextStyle{Bold: true}

	ui.spinner = widget.NewProgressBarInfinite()
	ui.spinner.Hide()

	topPanel := container.NewBorder(nil, nil,
		container.NewHBox(homeBtn, refreshBtn),
		container.NewHBox(ui.spinner, settingsBtn),
		ui.feedLabel,
	)

	// Horizontal bar of subscribed subreddits, rebuilt on every snapshot
	ui.subredditBar = container.NewHBox()
	ui.subredditScr = container.NewHScroll(ui.subredditBar)

	// Error banner with retry, hidden unless in the error state
	ui.errorLabel = widget.NewLabel("")
	ui.errorLabel.Wrapping = fyne.TextWrapWord
	ui.retryBtn = widget.NewButton("Retry", ui.onRetry)
	ui.retryBtn.Importance = widget.HighImportance
	ui.errorBanner = container.NewBorder(nil, nil, nil, ui.retryBtn, ui.errorLabel)
	ui.errorBanner.Hide()

	ui.postList = widget.NewList(
		func() int {
			return len(ui.currentSnapshot().Posts)
		},
		func() fyne.CanvasObject { return ui.createPostItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updatePostItem(id, obj) },
	)

	// Welcome panel shown while logged out
	welcomeLabel := widget.NewLabel(credentialsHelpText)
	welcomeLabel.Wrapping = fyne.TextWrapWord
	openSettingsBtn := widget.NewButton("Open Settings", ui.ShowSettings)
	openSettingsBtn.Importance = widget.HighImportance
	ui.welcomePanel = container.NewVBox(
		widget.NewLabel("Welcome to Reddish"),
		widget.NewSeparator(),
		welcomeLabel,
		openSettingsBtn,
	)

	ui.listArea = container.NewStack(ui.postList, container.NewCenter(ui.welcomePanel))

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.subredditScr, ui.errorBanner), // top
		nil, // bottom
		nil, // left
		nil, // right
		ui.listArea,
	)

	ui.window.SetContent(content)
	ui.render(ui.currentSnapshot())

	log.Printf("UI setup completed")
}

// ShowSettings opens the settings dialog. A complete credential save logs in
// with the new credentials.
func (ui *RootUI) ShowSettings() {
	NewSettingsDialog(ui.settings, ui.store, ui.window, func(creds *secrets.Credentials) {
		if creds != nil {
			log.Printf("Credentials saved, logging in")
			ui.feedSvc.Login(creds)
		}
	}).Show()
}

// createPostItem creates a new post row widget
func (ui *RootUI) createPostItem() fyne.CanvasObject {
	row := NewPostRow(ui.images)
	row.SetCallbacks(ui.onOpenComments)
	return row
}

// updatePostItem updates a post row with current data
func (ui *RootUI) updatePostItem(id widget.ListItemID, item fyne.CanvasObject) {
	snap := ui.currentSnapshot()
	if id >= len(snap.Posts) {
		return
	}

	row, ok := item.(*PostRow)
	if !ok {
		return
	}
	row.SetCallbacks(ui.onOpenComments)
	row.UpdatePost(snap.Posts[id])

	// Rendering a row near the end means the user scrolled there; ask for
	// the next page. LoadMore ignores the call unless a cursor is pending.
	if ui.settings.GetAutoLoadMore() && id >= len(snap.Posts)-LoadMoreThreshold {
		ui.feedSvc.LoadMore()
	}
}

// onOpenComments opens the comment dialog for a post
func (ui *RootUI) onOpenComments(post model.Post) {
	log.Printf("Opening comments for post %s", post.ID)
	ShowCommentsDialog(ui.window, ui.feedSvc, post)
}

// onRetry handles the retry button. Auth failures route to the settings
// dialog for new credentials instead of re-running the failed fetch.
func (ui *RootUI) onRetry() {
	if ui.currentSnapshot().AuthRequired {
		ui.ShowSettings()
		return
	}
	ui.feedSvc.Retry()
}

func (ui *RootUI) currentSnapshot() feed.Snapshot {
	ui.snapMu.Lock()
	defer ui.snapMu.Unlock()
	return ui.snapshot
}

// applySnapshot stores a snapshot unless a newer one has already arrived.
// Callback deliveries run outside the service lock and can overtake each
// other, so ordering is restored here from the sequence number.
func (ui *RootUI) applySnapshot(snap feed.Snapshot) bool {
	ui.snapMu.Lock()
	defer ui.snapMu.Unlock()

	if snap.Seq < ui.snapshot.Seq {
		return false
	}
	ui.snapshot = snap
	return true
}

// onFeedUpdate handles snapshots from the feed service. It arrives on a
// service goroutine, so all widget mutations hop to the UI thread.
func (ui *RootUI) onFeedUpdate(snap feed.Snapshot) {
	if !ui.applySnapshot(snap) {
		log.Printf("Dropping out-of-order snapshot: seq=%d feed=%s", snap.Seq, snap.Feed)
		return
	}

	log.Printf("Feed update: seq=%d state=%s feed=%s posts=%d more=%v",
		snap.Seq, snap.State, snap.Feed, len(snap.Posts), snap.HasMore)

	fyne.Do(func() {
		// Render the latest stored snapshot, not the captured one; another
		// delivery may have been applied while this closure was queued.
		ui.render(ui.currentSnapshot())
	})
}

// render applies a snapshot to the widgets. Must run on the UI thread.
func (ui *RootUI) render(snap feed.Snapshot) {
	ui.feedLabel.SetText(feedTitle(snap.Feed))

	if snap.State.IsLoading() || snap.LoadingMore {
		ui.spinner.Show()
	} else {
		ui.spinner.Hide()
	}

	if snap.State == model.StateError {
		ui.errorLabel.SetText(IconError + " " + snap.ErrMessage)
		if snap.AuthRequired {
			ui.retryBtn.SetText("Open Settings")
		} else {
			ui.retryBtn.SetText("Retry")
		}
		ui.errorBanner.Show()
	} else {
		ui.errorBanner.Hide()
	}

	if snap.State == model.StateLoggedOut {
		ui.welcomePanel.Show()
	} else {
		ui.welcomePanel.Hide()
	}

	ui.rebuildSubredditBar(snap)
	ui.postList.Refresh()
}

// rebuildSubredditBar recreates the subscription buttons for a snapshot.
func (ui *RootUI) rebuildSubredditBar(snap feed.Snapshot) {
	ui.subredditBar.Objects = nil

	if len(snap.Subreddits) == 0 {
		ui.subredditScr.Hide()
		return
	}
	ui.subredditScr.Show()

	for _, sub := range snap.Subreddits {
		name := sub.Name
		btn := widget.NewButton("r/"+name, func() {
			ui.feedSvc.Open(name)
		})
		btn.Importance = widget.LowImportance
		if snap.Feed == name {
			btn.Importance = widget.HighImportance
		}
		ui.subredditBar.Add(btn)
	}

	ui.subredditBar.Refresh()
}

func feedTitle(feedName string) string {
	if feedName == model.FeedHome {
		return "Front Page"
	}
	return "r/" + feedName
}
