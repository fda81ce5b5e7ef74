package model

// FeedState represents the state of the active listing
type FeedState string

const (
	// StateLoggedOut means no valid session exists yet
	StateLoggedOut FeedState = "LoggedOut"

	// StateLoading means a listing fetch is in progress
	StateLoading FeedState = "Loading"

	// StateReady means the active listing is displayed
	StateReady FeedState = "Ready"

	// StateError means the last login or fetch failed
	StateError FeedState = "Error"
)

// String returns the string representation of FeedState
func (fs FeedState) String() string {
	return string(fs)
}

// IsLoading returns true while a listing fetch is in progress
func (fs FeedState) IsLoading() bool {
	return fs == StateLoading
}

// CanNavigate returns true if the user may switch feeds in this state
func (fs FeedState) CanNavigate() bool {
	return fs == StateReady || fs == StateError
}
