package file

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore(t *testing.T) {
	t.Run("set and save round-trips through a reload", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewConfigStore(dir)
		require.NoError(t, err)

		require.NoError(t, store.Set("storage.data_dir", "/var/dam"))
		require.NoError(t, store.Set("pipeline.fusion_threshold", 0.9))
		require.NoError(t, store.Set("watcher.roots", []string{"/photos", "/docs"}))
		require.NoError(t, store.Save())

		reloaded, err := NewConfigStore(dir)
		require.NoError(t, err)
		assert.Equal(t, "/var/dam", reloaded.GetString("storage.data_dir"))
		assert.Equal(t, 0.9, reloaded.GetFloat("pipeline.fusion_threshold"))
		assert.Equal(t, []string{"/photos", "/docs"}, reloaded.GetStringSlice("watcher.roots"))
	})

	t.Run("missing keys yield zero values", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)

		assert.Empty(t, store.GetString("nope"))
		assert.Zero(t, store.GetInt("nope"))
		assert.Zero(t, store.GetFloat("nope"))
		assert.False(t, store.GetBool("nope"))
		assert.Nil(t, store.GetStringSlice("nope"))
	})

	t.Run("float accessor accepts integer values", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Set("reconcile.stats_per_second", 100))

		assert.Equal(t, 100.0, store.GetFloat("reconcile.stats_per_second"))
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults apply on an empty store", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)

		s := LoadSettings(store)

		assert.NotEmpty(t, s.DataDir)
		assert.Equal(t, []string{"*.tmp", "*.part", ".DS_Store", "~*"}, s.IgnorePatterns)
		assert.Equal(t, 30*time.Minute, s.ReconcileInterval)
		assert.Zero(t, s.Debounce, "the watcher applies its own default")
		assert.Empty(t, s.EmbeddingBaseURL)
	})

	t.Run("configured values win", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Set("storage.data_dir", "/var/dam"))
		require.NoError(t, store.Set("watcher.debounce_seconds", 0.5))
		require.NoError(t, store.Set("reconcile.interval_minutes", 5))
		require.NoError(t, store.Set("pipeline.fusion_threshold", 0.7))
		require.NoError(t, store.Set("search.rrf_k", 30))

		s := LoadSettings(store)

		assert.Equal(t, "/var/dam", s.DataDir)
		assert.Equal(t, 500*time.Millisecond, s.Debounce)
		assert.Equal(t, 5*time.Minute, s.ReconcileInterval)
		assert.Equal(t, 0.7, s.FusionThreshold)
		assert.Equal(t, 30, s.RRFK)
	})
}
