package file

import (
	"os"
	"path/filepath"
	"time"
)

// Settings is the typed view of the config file the composition root
// consumes. Missing keys fall back to the defaults below.
type Settings struct {
	// DataDir roots managed blob storage and the catalog database.
	DataDir string

	// WatchRoots are the directories the watcher and reconciler cover.
	WatchRoots []string

	// IgnorePatterns are base-name globs excluded from watching.
	IgnorePatterns []string

	// Owner is the owner id assigned to discovered files.
	Owner string

	// Debounce is the watcher quiet period.
	Debounce time.Duration

	// ReconcileInterval is the period of the background reconciliation
	// pass in watch mode.
	ReconcileInterval time.Duration

	// ReconcileStatsPerSecond rate-limits reconciliation file stats.
	ReconcileStatsPerSecond float64

	// FusionThreshold is the minimum fused similarity for a link.
	FusionThreshold float64

	// FusionTopK bounds relation fusion candidates.
	FusionTopK int

	// RRFK is the rank fusion constant.
	RRFK int

	// Workers sizes the driver extraction pool.
	Workers int

	// EmbeddingBaseURL, EmbeddingModel and EmbeddingToken configure the
	// query embedding endpoint; empty base URL disables the vector
	// search channel.
	EmbeddingBaseURL string
	EmbeddingModel   string
	EmbeddingToken   string
}

// LoadSettings reads the typed settings from a config store.
func LoadSettings(store *ConfigStore) Settings {
	s := Settings{
		DataDir:                 store.GetString("storage.data_dir"),
		WatchRoots:              store.GetStringSlice("watcher.roots"),
		IgnorePatterns:          store.GetStringSlice("watcher.ignore"),
		Owner:                   store.GetString("watcher.owner"),
		ReconcileStatsPerSecond: store.GetFloat("reconcile.stats_per_second"),
		FusionThreshold:         store.GetFloat("pipeline.fusion_threshold"),
		FusionTopK:              store.GetInt("pipeline.fusion_top_k"),
		RRFK:                    store.GetInt("search.rrf_k"),
		Workers:                 store.GetInt("pipeline.workers"),
		EmbeddingBaseURL:        store.GetString("embedding.base_url"),
		EmbeddingModel:          store.GetString("embedding.model"),
		EmbeddingToken:          store.GetString("embedding.token"),
	}

	if seconds := store.GetFloat("watcher.debounce_seconds"); seconds > 0 {
		s.Debounce = time.Duration(seconds * float64(time.Second))
	}
	if minutes := store.GetInt("reconcile.interval_minutes"); minutes > 0 {
		s.ReconcileInterval = time.Duration(minutes) * time.Minute
	}

	if s.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.DataDir = filepath.Join(home, ".webos-dam", "data")
		} else {
			s.DataDir = "data"
		}
	}
	if len(s.IgnorePatterns) == 0 {
		s.IgnorePatterns = []string{"*.tmp", "*.part", ".DS_Store", "~*"}
	}
	if s.ReconcileInterval == 0 {
		s.ReconcileInterval = 30 * time.Minute
	}
	return s
}
