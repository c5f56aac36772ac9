package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/core/ports/driving"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// Ensure CatalogReconciler implements the interface.
var _ driving.Reconciler = (*CatalogReconciler)(nil)

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Scanned    int
	Registered int
	Revived    int
	Missing    int
}

// CatalogReconciler repairs drift between the catalog and the watch
// roots. A pass runs three phases: register files the catalog has never
// seen, revive missing assets whose file reappeared, and mark assets
// missing when their file is gone. Filesystem stats are rate limited so
// a large tree does not saturate IO.
type CatalogReconciler struct {
	assets  driving.AssetService
	catalog driven.AssetStore
	owner   string
	roots   []string
	limiter *rate.Limiter
}

// NewCatalogReconciler creates a reconciler. Files it discovers are
// registered under owner. statsPerSecond <= 0 disables rate limiting.
func NewCatalogReconciler(assets driving.AssetService, catalog driven.AssetStore, owner string, roots []string, statsPerSecond float64) *CatalogReconciler {
	var limiter *rate.Limiter
	if statsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(statsPerSecond), 1)
	}
	return &CatalogReconciler{
		assets:  assets,
		catalog: catalog,
		owner:   owner,
		roots:   roots,
		limiter: limiter,
	}
}

// Reconcile runs one full pass over every root.
func (r *CatalogReconciler) Reconcile(ctx context.Context) error {
	logger.Section("Catalog Reconciliation")
	var report ReconcileReport

	for _, root := range r.roots {
		if err := r.sweepRoot(ctx, root, &report); err != nil {
			return err
		}
	}
	if err := r.sweepCatalog(ctx, &report); err != nil {
		return err
	}

	logger.Info("reconcile: scanned=%d registered=%d revived=%d missing=%d",
		report.Scanned, report.Registered, report.Revived, report.Missing)
	return nil
}

// sweepRoot walks one root registering unknown files and reviving
// missing assets whose file is back on disk.
func (r *CatalogReconciler) sweepRoot(ctx context.Context, root string, report *ReconcileReport) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("reconcile: walk %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if err := r.wait(ctx); err != nil {
			return err
		}
		report.Scanned++

		asset, err := r.catalog.GetByURN(ctx, urnForPath(path))
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if _, err := r.assets.RegisterPath(ctx, path, r.owner); err != nil {
				logger.Warn("reconcile: register %s: %v", path, err)
			} else {
				report.Registered++
			}
		case err != nil:
			return err
		case asset.Status == domain.StatusMissing:
			if err := r.assets.RefreshAsset(ctx, path); err != nil {
				logger.Warn("reconcile: revive %s: %v", path, err)
			} else {
				report.Revived++
			}
		}
		return nil
	})
}

// sweepCatalog marks assets missing when the file behind their locator
// is gone. Only locally resolvable assets under the roots are checked.
func (r *CatalogReconciler) sweepCatalog(ctx context.Context, report *ReconcileReport) error {
	for _, root := range r.roots {
		assets, err := r.catalog.ListByURNPrefix(ctx, urnForPath(root))
		if err != nil {
			return err
		}
		for i := range assets {
			if assets[i].Status == domain.StatusMissing {
				continue
			}
			path, ok := PathForURN(assets[i].StorageURN)
			if !ok {
				continue
			}
			if err := r.wait(ctx); err != nil {
				return err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := r.assets.MarkMissing(ctx, path); err != nil {
					logger.Warn("reconcile: mark missing %s: %v", path, err)
				} else {
					report.Missing++
				}
			}
		}
	}
	return nil
}

func (r *CatalogReconciler) wait(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}
