package portal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotosexpress/portal/internal/api/dto"
)

func TestFileProfileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.json")
	store := NewFileProfileStore(path)

	empty, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, empty)

	profile := Profile{
		Staff:     dto.StaffUserResponse{ID: "S1", Email: "s1@fotos.test", ZonasAsignadas: []string{"Z01"}},
		Token:     "jwt",
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(profile))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, profile.Staff, loaded.Staff)
	assert.True(t, profile.ExpiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	gone, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestProfileStores_DropExpired(t *testing.T) {
	expired := Profile{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}

	for name, store := range map[string]ProfileStore{
		"memory": NewMemoryProfileStore(),
		"file":   NewFileProfileStore(filepath.Join(t.TempDir(), "p.json")),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(expired))
			loaded, err := store.Load()
			require.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}
