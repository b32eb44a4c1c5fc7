package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestReloader(t *testing.T, store *Store) *Reloader {
	t.Helper()
	reloader, err := NewReloader(store, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, reloader.Start())
	t.Cleanup(func() {
		require.NoError(t, reloader.Stop())
	})
	return reloader
}

func TestReloader_ReloadsOnWrite(t *testing.T) {
	testInitLogger(t)
	store, path := newTestStore(t)
	startTestReloader(t, store)

	require.NoError(t, os.WriteFile(path, []byte(storeTestConfigV2), 0644))

	assert.Eventually(t, func() bool {
		return store.Snapshot().Application.LogLevel == "debug"
	}, 2*time.Second, 10*time.Millisecond, "expected the new config to be picked up")
	assert.Equal(t, 30, store.Snapshot().Filter.HorizonDays)
}

func TestReloader_ReloadsOnAtomicReplace(t *testing.T) {
	testInitLogger(t)
	store, path := newTestStore(t)
	startTestReloader(t, store)

	// Write-then-rename is how editors and config management tools save:
	// the watched name gets a brand-new inode.
	tmpPath := filepath.Join(filepath.Dir(path), "config.yaml.tmp")
	require.NoError(t, os.WriteFile(tmpPath, []byte(storeTestConfigV2), 0644))
	require.NoError(t, os.Rename(tmpPath, path))

	assert.Eventually(t, func() bool {
		return store.Snapshot().Application.LogLevel == "debug"
	}, 2*time.Second, 10*time.Millisecond, "expected the replaced config to be picked up")
}

func TestReloader_KeepsOldConfigOnBadWrite(t *testing.T) {
	testInitLogger(t)
	store, path := newTestStore(t)
	before := store.Snapshot()
	startTestReloader(t, store)

	require.NoError(t, os.WriteFile(path, []byte("filter:\n  horizon_days: -5\n"), 0644))

	// The reload attempt fails and the old snapshot stays active.
	assert.Never(t, func() bool {
		return store.Snapshot() != before
	}, 500*time.Millisecond, 25*time.Millisecond, "invalid config must not replace the active one")

	// A subsequent good write recovers without a restart.
	require.NoError(t, os.WriteFile(path, []byte(storeTestConfigV2), 0644))
	assert.Eventually(t, func() bool {
		return store.Snapshot().Application.LogLevel == "debug"
	}, 2*time.Second, 10*time.Millisecond, "expected recovery after a good write")
}

func TestReloader_IgnoresSiblingFiles(t *testing.T) {
	testInitLogger(t)
	store, path := newTestStore(t)
	before := store.Snapshot()
	startTestReloader(t, store)

	sibling := filepath.Join(filepath.Dir(path), "unrelated.yaml")
	require.NoError(t, os.WriteFile(sibling, []byte(storeTestConfigV2), 0644))

	assert.Never(t, func() bool {
		return store.Snapshot() != before
	}, 300*time.Millisecond, 25*time.Millisecond, "changes to other files must not trigger a reload")
}

func TestNewReloader_RequiresConfigPath(t *testing.T) {
	testInitLogger(t)
	store := NewStore("", Default())

	_, err := NewReloader(store, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file in use")
}
