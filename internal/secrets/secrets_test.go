package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func testCredentials() *Credentials {
	return &Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Username:     "someuser",
		Password:     "hunter2",
	}
}

func TestStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewStore()

	want := testCredentials()
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreLoadAbsent(t *testing.T) {
	keyring.MockInit()
	store := NewStore()

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreClear(t *testing.T) {
	keyring.MockInit()
	store := NewStore()

	require.NoError(t, store.Save(testCredentials()))
	require.NoError(t, store.Clear())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreClearAbsent(t *testing.T) {
	keyring.MockInit()
	store := NewStore()

	assert.NoError(t, store.Clear())
}

func TestCredentialsComplete(t *testing.T) {
	tests := []struct {
		name  string
		creds *Credentials
		want  bool
	}{
		{"all fields", testCredentials(), true},
		{"nil", nil, false},
		{"empty", &Credentials{}, false},
		{"missing password", &Credentials{ClientID: "a", ClientSecret: "b", Username: "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.Complete())
		})
	}
}
