package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/core/ports/driving"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// Ensure PipelineOrchestrator implements the interface.
var _ driving.PipelineRunner = (*PipelineOrchestrator)(nil)

// PipelineOrchestrator runs the enrichment pipeline: driver extraction
// first, then every registered stage whose applicability includes the
// asset's primary type, strictly in registration order against the same
// asset instance. A failing stage is recorded under
// metadata.pipeline_errors[stage] and execution continues; the terminal
// status is ready when nothing failed, partial otherwise.
//
// Two runs for the same asset never execute concurrently: a per-asset
// mutex serialises them in process. Distinct assets run in parallel.
type PipelineOrchestrator struct {
	assets  driven.AssetStore
	drivers *DriverManager
	paths   driven.PathResolver // optional
	bus     driven.IngestBus
	stages  []driven.PipelineStage

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	wg sync.WaitGroup
}

// NewPipelineOrchestrator creates an orchestrator. The path resolver is
// optional; without it (or for non-local blobs) driver extraction is
// skipped, not failed.
func NewPipelineOrchestrator(
	assets driven.AssetStore,
	drivers *DriverManager,
	paths driven.PathResolver,
	bus driven.IngestBus,
) *PipelineOrchestrator {
	return &PipelineOrchestrator{
		assets:  assets,
		drivers: drivers,
		paths:   paths,
		bus:     bus,
		locks:   make(map[string]*sync.Mutex),
	}
}

// RegisterStage appends a stage. Stages run in registration order.
func (o *PipelineOrchestrator) RegisterStage(stage driven.PipelineStage) {
	o.stages = append(o.stages, stage)
	logger.Debug("pipeline: registered stage %q", stage.Name())
}

// Run executes the pipeline for one asset.
func (o *PipelineOrchestrator) Run(ctx context.Context, assetID string) error {
	lock := o.assetLock(assetID)
	lock.Lock()
	defer lock.Unlock()

	asset, err := o.assets.Get(ctx, assetID)
	if err != nil {
		return fmt.Errorf("load asset %s: %w", assetID, err)
	}

	logger.Info("pipeline: starting for %s (%s)", asset.Filename, assetID)

	asset.Status = domain.StatusProcessing
	asset.EnsureMaps()
	delete(asset.Metadata, domain.MetaKeyPipelineErrors)
	if err := o.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("persist processing status: %w", err)
	}

	// Technical metadata extraction precedes the AI stages so they can
	// rely on dimensions and format probes. Only local files have a
	// path to hand to a driver.
	if o.drivers != nil && o.paths != nil {
		if localPath, err := o.paths.LocalPath(asset.StorageURN); err == nil {
			o.drivers.Process(ctx, asset, localPath)
		} else {
			logger.Debug("pipeline: no local path for %s, drivers skipped", asset.StorageURN)
		}
	}

	primary := asset.PrimaryType()
	ran := 0
	for _, stage := range o.stages {
		if !stageApplies(stage, primary) {
			logger.Debug("pipeline: skipping %q for type %q", stage.Name(), primary)
			continue
		}
		logger.Debug("pipeline: executing %q for %s", stage.Name(), assetID)
		if err := stage.Process(ctx, asset); err != nil {
			logger.Error("pipeline: %q failed for %s: %v", stage.Name(), assetID, err)
			asset.PipelineErrors()[stage.Name()] = err.Error()
			continue
		}
		ran++
	}

	if len(asset.PipelineErrors()) > 0 {
		asset.Status = domain.StatusPartial
	} else {
		asset.Status = domain.StatusReady
		delete(asset.Metadata, domain.MetaKeyPipelineErrors)
	}

	if err := o.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("persist terminal status: %w", err)
	}
	logger.Info("pipeline: completed for %s, stages ran: %d, status: %s", assetID, ran, asset.Status)
	return nil
}

// Consume drains ingest signals until the context is cancelled or the
// bus closes. Each signal runs in its own goroutine; the per-asset lock
// keeps duplicate signals for one asset sequential.
func (o *PipelineOrchestrator) Consume(ctx context.Context) error {
	if o.bus == nil {
		return fmt.Errorf("pipeline: no ingest bus configured")
	}
	for {
		select {
		case <-ctx.Done():
			o.wg.Wait()
			return ctx.Err()
		case sig, ok := <-o.bus.Signals():
			if !ok {
				o.wg.Wait()
				return nil
			}
			o.wg.Add(1)
			go func(id string) {
				defer o.wg.Done()
				if err := o.Run(ctx, id); err != nil {
					logger.Error("pipeline: run failed for %s: %v", id, err)
				}
			}(sig.AssetID)
		}
	}
}

// assetLock returns the mutex serialising runs for one asset id.
func (o *PipelineOrchestrator) assetLock(assetID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[assetID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[assetID] = lock
	}
	return lock
}

func stageApplies(stage driven.PipelineStage, primary string) bool {
	for _, t := range stage.AppliesTo() {
		if t == primary {
			return true
		}
	}
	return false
}
