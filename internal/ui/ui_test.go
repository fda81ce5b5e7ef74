package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/zalando/go-keyring"

	"github.com/reddish-app/reddish/internal/config"
	"github.com/reddish-app/reddish/internal/feed"
	"github.com/reddish-app/reddish/internal/imagecache"
	"github.com/reddish-app/reddish/internal/model"
	"github.com/reddish-app/reddish/internal/secrets"
)

func newTestRootUI(t *testing.T) *RootUI {
	t.Helper()
	keyring.MockInit()

	app := test.NewApp()
	window := app.NewWindow("test")

	images, err := imagecache.New(0, "", nil)
	if err != nil {
		t.Fatalf("imagecache.New() error = %v", err)
	}

	return NewRootUI(window, app, feed.NewService(nil, 25, nil), images, secrets.NewStore())
}

func TestRootUIKeepsNewestSnapshot(t *testing.T) {
	ui := newTestRootUI(t)

	newer := feed.Snapshot{
		Seq:   5,
		State: model.StateReady,
		Feed:  "golang",
		Posts: []model.Post{{ID: "g-0"}, {ID: "g-1"}},
	}
	older := feed.Snapshot{
		Seq:   4,
		State: model.StateReady,
		Feed:  model.FeedHome,
		Posts: []model.Post{{ID: "h-0"}, {ID: "h-1"}, {ID: "h-2"}, {ID: "h-3"}},
	}

	if !ui.applySnapshot(newer) {
		t.Fatal("expected the first snapshot to be stored")
	}

	// A delivery that was delayed in flight arrives after the listing it
	// belongs to has been superseded; it must not win.
	if ui.applySnapshot(older) {
		t.Error("expected the superseded snapshot to be dropped")
	}

	got := ui.currentSnapshot()
	if got.Feed != "golang" || len(got.Posts) != 2 {
		t.Errorf("current snapshot = feed %q with %d posts, want golang with 2", got.Feed, len(got.Posts))
	}
}

func TestRootUIAcceptsNewerSnapshot(t *testing.T) {
	ui := newTestRootUI(t)

	first := feed.Snapshot{Seq: 1, State: model.StateLoading, Feed: model.FeedHome}
	second := feed.Snapshot{Seq: 2, State: model.StateReady, Feed: model.FeedHome, Posts: []model.Post{{ID: "h-0"}}}

	if !ui.applySnapshot(first) || !ui.applySnapshot(second) {
		t.Fatal("expected in-order snapshots to be stored")
	}
	if got := ui.currentSnapshot(); got.State != model.StateReady || len(got.Posts) != 1 {
		t.Errorf("current snapshot = %s with %d posts, want Ready with 1", got.State, len(got.Posts))
	}
}

func TestFeedTitle(t *testing.T) {
	if got := feedTitle(model.FeedHome); got != "Front Page" {
		t.Errorf("feedTitle(home) = %q, want %q", got, "Front Page")
	}
	if got := feedTitle("golang"); got != "r/golang" {
		t.Errorf("feedTitle(golang) = %q, want %q", got, "r/golang")
	}
}

func TestReddishThemePrimaryColor(t *testing.T) {
	want := color.RGBA{R: 255, G: 69, B: 0, A: 255}

	for _, dark := range []bool{true, false} {
		th := NewReddishTheme(dark)
		if got := th.Color(theme.ColorNamePrimary, theme.VariantLight); got != want {
			t.Errorf("Color(primary, dark=%v) = %v, want %v", dark, got, want)
		}
	}
}

func TestReddishThemeIgnoresRequestedVariant(t *testing.T) {
	dark := NewReddishTheme(true)

	// The dark theme must stay dark even when the OS reports light.
	got := dark.Color(theme.ColorNameBackground, theme.VariantLight)
	want := color.RGBA{R: 18, G: 18, B: 18, A: 255}
	if got != want {
		t.Errorf("dark background = %v, want %v", got, want)
	}

	light := NewReddishTheme(false)
	got = light.Color(theme.ColorNameBackground, theme.VariantDark)
	want = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	if got != want {
		t.Errorf("light background = %v, want %v", got, want)
	}
}

func TestSettingsDialogSavesCredentials(t *testing.T) {
	keyring.MockInit()

	app := test.NewApp()
	window := app.NewWindow("test")
	settings := config.NewSettings(app)
	store := secrets.NewStore()

	var saved *secrets.Credentials
	sd := NewSettingsDialog(settings, store, window, func(creds *secrets.Credentials) {
		saved = creds
	})

	sd.clientIDEntry.SetText("client-id")
	sd.clientSecretEntry.SetText("client-secret")
	sd.usernameEntry.SetText("someuser")
	sd.passwordEntry.SetText("hunter2")
	sd.darkModeCheck.SetChecked(false)
	sd.pageSizeEntry.SetText("50")

	sd.onSave(true)

	if saved == nil || saved.Username != "someuser" {
		t.Fatalf("onSaved not called with complete credentials: %+v", saved)
	}

	stored, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stored == nil || stored.ClientID != "client-id" {
		t.Errorf("stored credentials = %+v, want client-id", stored)
	}

	if settings.GetDarkMode() {
		t.Error("expected dark mode saved as false")
	}
	if got := settings.GetPageSize(); got != 50 {
		t.Errorf("GetPageSize() = %d, want 50", got)
	}
}

func TestSettingsDialogIncompleteCredentials(t *testing.T) {
	keyring.MockInit()

	app := test.NewApp()
	window := app.NewWindow("test")
	store := secrets.NewStore()

	called := false
	var saved *secrets.Credentials
	sd := NewSettingsDialog(config.NewSettings(app), store, window, func(creds *secrets.Credentials) {
		called = true
		saved = creds
	})

	sd.usernameEntry.SetText("someuser")
	sd.onSave(true)

	if !called || saved != nil {
		t.Errorf("expected onSaved(nil) for incomplete credentials, called=%v saved=%+v", called, saved)
	}

	stored, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stored != nil {
		t.Errorf("incomplete credentials must not be stored, got %+v", stored)
	}
}
