package ui

import (
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/reddish-app/reddish/internal/config"
	"github.com/reddish-app/reddish/internal/secrets"
)

const credentialsHelpText = `Reddish talks to Reddit through your own "script" app:

1. Open reddit.com/prefs/apps while logged in
2. Create an app of type "script"
3. Paste its client ID and secret below, along with your
   Reddit username and password

Credentials are stored in your OS keyring, never in a file.`

// SettingsDialog represents the settings and credentials dialog
type SettingsDialog struct {
	settings *config.Settings
	store    *secrets.Store
	window   fyne.Window
	dialog   *dialog.ConfirmDialog

	// onSaved fires after a successful save, with the credentials when they
	// are complete and nil when only display settings changed.
	onSaved func(creds *secrets.Credentials)

	// UI components
	clientIDEntry     *widget.Entry
	clientSecretEntry *widget.Entry
	usernameEntry     *widget.Entry
	passwordEntry     *widget.Entry
	darkModeCheck     *widget.Check
	autoLoadCheck     *widget.Check
	pageSizeEntry     *widget.Entry
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, store *secrets.Store, window fyne.Window, onSaved func(creds *secrets.Credentials)) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		store:    store,
		window:   window,
		onSaved:  onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	helpLabel := widget.NewLabel(credentialsHelpText)
	helpLabel.Wrapping = fyne.TextWrapWord

	sd.clientIDEntry = widget.NewEntry()
	sd.clientIDEntry.SetPlaceHolder("Client ID")

	sd.clientSecretEntry = widget.NewPasswordEntry()
	sd.clientSecretEntry.SetPlaceHolder("Client secret")

	sd.usernameEntry = widget.NewEntry()
	sd.usernameEntry.SetPlaceHolder("Reddit username")

	sd.passwordEntry = widget.NewPasswordEntry()
	sd.passwordEntry.SetPlaceHolder("Reddit password")

	sd.darkModeCheck = widget.NewCheck("Dark mode (takes effect on restart)", nil)
	sd.autoLoadCheck = widget.NewCheck("Load more posts automatically when scrolling", nil)

	sd.pageSizeEntry = widget.NewEntry()
	sd.pageSizeEntry.SetPlaceHolder("1-100")

	form := container.NewVBox(
		widget.NewLabel("Reddit Account"),
		widget.NewSeparator(),
		helpLabel,

		widget.NewLabel("Client ID:"),
		sd.clientIDEntry,

		widget.NewLabel("Client Secret:"),
		sd.clientSecretEntry,

		widget.NewLabel("Username:"),
		sd.usernameEntry,

		widget.NewLabel("Password:"),
		sd.passwordEntry,

		widget.NewSeparator(),
		widget.NewLabel("Interface"),
		widget.NewSeparator(),

		sd.darkModeCheck,
		sd.autoLoadCheck,

		widget.NewLabel("Posts per page:"),
		sd.pageSizeEntry,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		container.NewVScroll(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	creds, err := sd.store.Load()
	if err != nil {
		log.Printf("Could not read stored credentials: %v", err)
	}
	if creds != nil {
		sd.clientIDEntry.SetText(creds.ClientID)
		sd.clientSecretEntry.SetText(creds.ClientSecret)
		sd.usernameEntry.SetText(creds.Username)
		sd.passwordEntry.SetText(creds.Password)
	}

	sd.darkModeCheck.SetChecked(sd.settings.GetDarkMode())
	sd.autoLoadCheck.SetChecked(sd.settings.GetAutoLoadMore())
	sd.pageSizeEntry.SetText(strconv.Itoa(sd.settings.GetPageSize()))
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	sd.settings.SetDarkMode(sd.darkModeCheck.Checked)
	sd.settings.SetAutoLoadMore(sd.autoLoadCheck.Checked)

	if sd.pageSizeEntry.Text != "" {
		if pageSize, err := strconv.Atoi(sd.pageSizeEntry.Text); err == nil {
			sd.settings.SetPageSize(pageSize)
		}
	}

	creds := &secrets.Credentials{
		ClientID:     sd.clientIDEntry.Text,
		ClientSecret: sd.clientSecretEntry.Text,
		Username:     sd.usernameEntry.Text,
		Password:     sd.passwordEntry.Text,
	}

	if !creds.Complete() {
		log.Printf("Settings saved without complete credentials")
		if sd.onSaved != nil {
			sd.onSaved(nil)
		}
		return
	}

	if err := sd.store.Save(creds); err != nil {
		log.Printf("Failed to save credentials: %v", err)
		dialog.ShowError(err, sd.window)
		return
	}

	if sd.onSaved != nil {
		sd.onSaved(creds)
	}
}
