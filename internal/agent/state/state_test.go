package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "agent", "state.json"))

	id, err := store.Load()
	assert.NoError(t, err)
	assert.Empty(t, id)

	assert.NoError(t, store.Save("session-123"))

	id, err = store.Load()
	assert.NoError(t, err)
	assert.Equal(t, "session-123", id)

	assert.NoError(t, store.Clear())
	id, err = store.Load()
	assert.NoError(t, err)
	assert.Empty(t, id)

	// Clearing twice is fine.
	assert.NoError(t, store.Clear())
}

func TestStore_CorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	id, err := NewStore(path).Load()
	assert.NoError(t, err)
	assert.Empty(t, id)
}
