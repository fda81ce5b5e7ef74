// Package ui implements the Fyne desktop interface: the main window with the
// post list and subreddit bar, the comment dialog, the settings dialog, and
// the app theme.
package ui
