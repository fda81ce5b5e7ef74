package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconRefresh  = "⟳"
	IconHome     = "⌂"
	IconComments = "💬"
	IconError    = "❌"
	IconUp       = "▲"
)

// Text fragments
const MiddleDotSeparator = " · "

// Window sizing
const (
	WindowWidth  float32 = 800
	WindowHeight float32 = 600
)

// Layout sizing (PostRow / lists)
const (
	ThumbnailSize float32 = 100

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 80
)

// Dialog sizing
const (
	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 520

	CommentsDialogWidth  float32 = 640
	CommentsDialogHeight float32 = 520
)

// Comment rendering
const (
	CommentIndentWidth float32 = 18
)

// Infinite scroll: how close to the end of the list (in rows) a render must
// get before the next page is requested.
const LoadMoreThreshold = 5
