// Package secrets persists Reddit API credentials in the operating system
// keyring (Secret Service on Linux, Keychain on macOS, Credential Manager on
// Windows). Credentials never touch a plain file on disk.
package secrets

import (
	"encoding/json"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name entries are filed under
	keyringService = "Reddish"
	// keyringAccount is the single account key holding the credential blob
	keyringAccount = "api-credentials"
)

// Credentials holds everything needed for Reddit's password grant: the
// script app's client id/secret plus the account username and password.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// Complete returns true when every field is non-empty.
func (c *Credentials) Complete() bool {
	return c != nil &&
		c.ClientID != "" &&
		c.ClientSecret != "" &&
		c.Username != "" &&
		c.Password != ""
}

// StoreUnavailableError indicates the OS keyring itself could not be reached,
// as opposed to credentials simply being absent.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("credential store unavailable: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// Store reads and writes the credential blob in the OS keyring.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Save serializes the credentials and writes them to the keyring, replacing
// any previous entry.
func (s *Store) Save(creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to serialize credentials")
	}

	if err := keyring.Set(keyringService, keyringAccount, string(data)); err != nil {
		return &StoreUnavailableError{Err: err}
	}
	return nil
}

// Load returns the stored credentials, or (nil, nil) when none are stored.
// An unreachable keyring is reported as a StoreUnavailableError so the UI
// can distinguish "not logged in yet" from "broken platform integration".
func (s *Store) Load() (*Credentials, error) {
	data, err := keyring.Get(keyringService, keyringAccount)
	if err != nil {
		if pkgerrors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, &StoreUnavailableError{Err: err}
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to parse stored credentials")
	}
	return &creds, nil
}

// Clear removes the stored credentials. Clearing an empty store is not an
// error.
func (s *Store) Clear() error {
	if err := keyring.Delete(keyringService, keyringAccount); err != nil {
		if pkgerrors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return &StoreUnavailableError{Err: err}
	}
	return nil
}
