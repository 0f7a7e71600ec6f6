package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/extract-cart/internal/port"
	"github.com/nikolayk812/extract-cart/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStorage(t *testing.T) {
	backends := []struct {
		name string
		open func(t *testing.T) port.SessionStorage
	}{
		{
			name: "memory",
			open: func(t *testing.T) port.SessionStorage {
				return storage.NewMemory()
			},
		},
		{
			name: "file",
			open: func(t *testing.T) port.SessionStorage {
				f, err := storage.NewFile(t.TempDir(), gofakeit.UUID())
				require.NoError(t, err)
				return f
			},
		},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			t.Run("get missing key: not found", func(t *testing.T) {
				s := backend.open(t)

				_, ok, err := s.GetItem(t.Context(), "missing")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("set then get: ok", func(t *testing.T) {
				s := backend.open(t)
				value := gofakeit.UUID()

				require.NoError(t, s.SetItem(t.Context(), "k", value))

				got, ok, err := s.GetItem(t.Context(), "k")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, value, got)
			})

			t.Run("set overwrites: ok", func(t *testing.T) {
				s := backend.open(t)

				require.NoError(t, s.SetItem(t.Context(), "k", "first"))
				require.NoError(t, s.SetItem(t.Context(), "k", "second"))

				got, _, err := s.GetItem(t.Context(), "k")
				require.NoError(t, err)
				assert.Equal(t, "second", got)
			})

			t.Run("remove: ok", func(t *testing.T) {
				s := backend.open(t)

				require.NoError(t, s.SetItem(t.Context(), "k", "v"))
				require.NoError(t, s.SetItem(t.Context(), "other", "v"))
				require.NoError(t, s.RemoveItem(t.Context(), "k"))

				_, ok, err := s.GetItem(t.Context(), "k")
				require.NoError(t, err)
				assert.False(t, ok)

				_, ok, err = s.GetItem(t.Context(), "other")
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("remove missing key: ok", func(t *testing.T) {
				s := backend.open(t)
				require.NoError(t, s.RemoveItem(t.Context(), "missing"))
			})
		})
	}
}

func TestFile_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	sessionID := gofakeit.UUID()

	f, err := storage.NewFile(dir, sessionID)
	require.NoError(t, err)
	require.NoError(t, f.SetItem(t.Context(), "k", `{"a":1}`))

	reopened, err := storage.NewFile(dir, sessionID)
	require.NoError(t, err)

	got, ok, err := reopened.GetItem(t.Context(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, got)

	other, err := storage.NewFile(dir, gofakeit.UUID())
	require.NoError(t, err)

	_, ok, err = other.GetItem(t.Context(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_CorruptFile(t *testing.T) {
	f, err := storage.NewFile(t.TempDir(), "session")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(f.Path(), []byte("not json"), 0o600))

	_, _, err = f.GetItem(t.Context(), "k")
	require.Error(t, err)

	err = f.SetItem(t.Context(), "k", "v")
	require.Error(t, err)
}

func TestNewFile(t *testing.T) {
	tests := []struct {
		name      string
		dir       string
		sessionID string
		wantError string
	}{
		{
			name:      "empty dir: error",
			sessionID: "s",
			wantError: "dir is empty",
		},
		{
			name:      "empty session: error",
			dir:       t.TempDir(),
			wantError: "sessionID is empty",
		},
		{
			name:      "session with separator: error",
			dir:       t.TempDir(),
			sessionID: "../escape",
			wantError: "sessionID[../escape] is not a valid file name",
		},
		{
			name:      "nested dir is created: ok",
			dir:       filepath.Join(t.TempDir(), "a", "b"),
			sessionID: "s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := storage.NewFile(tt.dir, tt.sessionID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(tt.dir, tt.sessionID+".json"), f.Path())
		})
	}
}
