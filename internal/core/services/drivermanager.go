package services

import (
	"context"
	"fmt"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// DriverManager dispatches an asset to the type-specific metadata
// extractor. Extraction is expected to block on disk, CPU or external
// tools, so it runs on a worker pool rather than the caller's
// goroutine. One malformed file never aborts ingestion of others: every
// driver failure is written into the asset's metadata namespace and
// swallowed.
type DriverManager struct {
	drivers map[string]driven.Driver
	pool    *ants.Pool
}

// NewDriverManager creates a manager with a worker pool of the given
// size. A size below 1 defaults to half the CPUs.
func NewDriverManager(poolSize int) (*DriverManager, error) {
	if poolSize < 1 {
		poolSize = runtime.NumCPU() / 2
		if poolSize < 1 {
			poolSize = 1
		}
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create driver pool: %w", err)
	}
	return &DriverManager{
		drivers: make(map[string]driven.Driver),
		pool:    pool,
	}, nil
}

// Register adds a driver. A later registration for the same type
// overwrites the earlier one.
func (m *DriverManager) Register(d driven.Driver) {
	if _, ok := m.drivers[d.TypeID()]; ok {
		logger.Warn("driver manager: driver for %q already registered, overwriting", d.TypeID())
	}
	m.drivers[d.TypeID()] = d
	logger.Debug("driver manager: registered driver for %q", d.TypeID())
}

// Process runs the driver for the asset's primary type against the
// local file and mounts the result under asset.Metadata[primaryType].
// No registered driver is a silent no-op. Failures are recorded as
// {"error": reason} in the same namespace and never returned.
func (m *DriverManager) Process(ctx context.Context, asset *domain.Asset, localPath string) {
	primary := asset.PrimaryType()

	driver, ok := m.drivers[primary]
	if !ok {
		logger.Debug("driver manager: no driver for type %q, skipped extraction", primary)
		return
	}

	type result struct {
		meta map[string]any
		err  error
	}
	done := make(chan result, 1)

	submitErr := m.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("driver panic: %v", r)}
			}
		}()
		meta, err := driver.ExtractMetadata(ctx, asset, localPath)
		done <- result{meta: meta, err: err}
	})

	asset.EnsureMaps()
	if submitErr != nil {
		logger.Error("driver manager: submit failed for asset %s: %v", asset.ID, submitErr)
		asset.Metadata[primary] = map[string]any{"error": submitErr.Error()}
		return
	}

	res := <-done
	if res.err != nil {
		logger.Error("driver manager: %q driver failed for asset %s: %v", primary, asset.ID, res.err)
		asset.Metadata[primary] = map[string]any{"error": res.err.Error()}
		return
	}
	if len(res.meta) > 0 {
		asset.Metadata[primary] = res.meta
	}
}

// Close releases the worker pool.
func (m *DriverManager) Close() {
	m.pool.Release()
}
