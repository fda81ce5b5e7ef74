// Package config persists user settings through Fyne's preferences API.
package config

import (
	"fyne.io/fyne/v2"
)

const (
	darkModeKey     = "dark_mode"
	pageSizeKey     = "post_page_size"
	autoLoadKey     = "auto_load_more"
	imageCacheMBKey = "image_cache_mb"

	// DefaultPageSize is how many posts one listing request asks for
	DefaultPageSize = 25
	minPageSize     = 1
	maxPageSize     = 100

	// DefaultImageCacheMB bounds the in-memory thumbnail cache
	DefaultImageCacheMB = 64
	minImageCacheMB     = 16
	maxImageCacheMB     = 512
)

// Settings wraps the Fyne preferences store with typed accessors. Defaults
// are written back on first read so the preferences file reflects effective
// values.
type Settings struct {
	app fyne.App
}

func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDarkMode returns whether the dark theme is active. Defaults to true.
func (s *Settings) GetDarkMode() bool {
	return s.app.Preferences().BoolWithFallback(darkModeKey, true)
}

func (s *Settings) SetDarkMode(enabled bool) {
	s.app.Preferences().SetBool(darkModeKey, enabled)
}

// GetPageSize returns the listing page size, clamped to Reddit's accepted
// range.
func (s *Settings) GetPageSize() int {
	size := s.app.Preferences().IntWithFallback(pageSizeKey, DefaultPageSize)
	if size < minPageSize || size > maxPageSize {
		size = DefaultPageSize
		s.app.Preferences().SetInt(pageSizeKey, size)
	}
	return size
}

func (s *Settings) SetPageSize(size int) {
	if size < minPageSize || size > maxPageSize {
		size = DefaultPageSize
	}
	s.app.Preferences().SetInt(pageSizeKey, size)
}

// GetAutoLoadMore returns whether scrolling near the bottom fetches the next
// page automatically. Defaults to true.
func (s *Settings) GetAutoLoadMore() bool {
	return s.app.Preferences().BoolWithFallback(autoLoadKey, true)
}

func (s *Settings) SetAutoLoadMore(enabled bool) {
	s.app.Preferences().SetBool(autoLoadKey, enabled)
}

// GetImageCacheMB returns the thumbnail cache budget in megabytes.
func (s *Settings) GetImageCacheMB() int {
	mb := s.app.Preferences().IntWithFallback(imageCacheMBKey, DefaultImageCacheMB)
	if mb < minImageCacheMB || mb > maxImageCacheMB {
		mb = DefaultImageCacheMB
		s.app.Preferences().SetInt(imageCacheMBKey, mb)
	}
	return mb
}

func (s *Settings) SetImageCacheMB(mb int) {
	if mb < minImageCacheMB || mb > maxImageCacheMB {
		mb = DefaultImageCacheMB
	}
	s.app.Preferences().SetInt(imageCacheMBKey, mb)
}
