// Package watcher drives the scrape cycle: fetch the listing, extract
// products, resolve image assets, diff against the known set, persist,
// then notify. One cycle runs to completion before the next may start.
package watcher

import (
	"context"
	"errors"
	"log"
	"time"

	"StoreWatch/internal/adapter"
	"StoreWatch/internal/assets"
	"StoreWatch/internal/diff"
	"StoreWatch/internal/models"
	"StoreWatch/internal/notify"
)

// Cycle states, in transition order. A failed cycle aborts back to idle
// and the next scheduled cycle retries from scratch.
const (
	StateIdle       = "idle"
	StateFetching   = "fetching"
	StateExtracting = "extracting"
	StateResolving  = "resolving"
	StateDiffing    = "diffing"
	StatePersisting = "persisting"
	StateNotifying  = "notifying"
)

// ProductStore is the durable known-product set. Load of a never-written
// store yields an empty set; Save atomically replaces the full set.
type ProductStore interface {
	Load() ([]models.ProductRecord, error)
	Save([]models.ProductRecord) error
}

// ImageResolver assigns stable local asset ids, downloading each image at
// most once per product identity.
type ImageResolver interface {
	ResolveImage(ctx context.Context, knownIDs map[string]string, name, normalizedURL string) (string, error)
}

// Ledger records finished cycles and notification attempts. Ledger
// failures are logged, never allowed to affect the cycle outcome.
type Ledger interface {
	RecordCycle(models.CycleStats) error
	RecordNotification(rec models.ProductRecord, sentAt time.Time, deliveryErr error) error
}

// Fetcher matches fetch.Fetcher; redeclared here so the orchestrator
// depends only on behavior.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Watcher owns one storefront's change-detection pipeline. All shared
// mutable state (store file, asset dir) is touched only by the strictly
// sequential steps of RunCycle, so no locking is needed beyond "one cycle
// at a time", which the scheduler loop guarantees.
type Watcher struct {
	ListingURL string
	Fetcher    Fetcher
	Adapter    adapter.PageAdapter
	Resolver   ImageResolver
	Store      ProductStore
	Notifier   notify.Notifier
	Ledger     Ledger

	// ResolvePageURL turns an extracted href fragment into an absolute
	// product page URL.
	ResolvePageURL func(fragment string) string
}

// RunCycle executes one full pass. The returned stats mirror what is
// written to the ledger. An error means the cycle aborted with the
// persisted state untouched, except for delivery errors which are logged
// per product and never returned.
func (w *Watcher) RunCycle(ctx context.Context) (models.CycleStats, error) {
	stats := models.CycleStats{StartedAt: time.Now(), State: StateIdle}

	// Snapshot the known set once; it must not change mid-cycle.
	known, err := w.Store.Load()
	if err != nil {
		return w.abort(stats, "loading", err)
	}
	bootstrap := len(known) == 0
	stats.Bootstrap = bootstrap

	knownIDs := make(map[string]string, len(known))
	for _, rec := range known {
		knownIDs[rec.Name] = rec.ImageID
	}

	pageContent, err := w.Fetcher.Fetch(ctx, w.ListingURL)
	if err != nil {
		return w.abort(stats, StateFetching, err)
	}

	raws, err := w.Adapter.Extract(pageContent)
	if err != nil {
		return w.abort(stats, StateExtracting, err)
	}
	stats.Seen = len(raws)
	log.Printf("Extracted %d products from listing", len(raws))

	current, err := w.resolveAll(ctx, raws, knownIDs)
	if err != nil {
		return w.abort(stats, StateResolving, err)
	}

	fresh := diff.New(current, known)
	stats.New = len(fresh)
	if len(fresh) == 0 {
		log.Println("No new products this cycle")
		stats.FinishedAt = time.Now()
		w.record(stats)
		return stats, nil
	}

	// Persist before notifying: a crash between the two steps must never
	// cause a duplicate notification on retry.
	persistedAt := time.Now()
	for i := range fresh {
		fresh[i].CachedTime = persistedAt
	}
	if err := w.Store.Save(append(known, fresh...)); err != nil {
		return w.abort(stats, StatePersisting, err)
	}
	log.Printf("Persisted %d new products (store now %d)", len(fresh), len(known)+len(fresh))

	if bootstrap {
		// First successful cycle seeds the store without alerting on every
		// pre-existing listing.
		log.Printf("Bootstrap cycle: suppressing %d notifications", len(fresh))
	} else {
		stats.Notified = w.notifyAll(fresh, persistedAt)
	}

	stats.FinishedAt = time.Now()
	w.record(stats)
	return stats, nil
}

// resolveAll builds full records for the extracted fields, one product at
// a time. A per-product asset failure drops only that product; it stays
// absent from the store and is retried next cycle. Duplicate names within
// one listing keep the first occurrence only.
func (w *Watcher) resolveAll(ctx context.Context, raws []models.RawProductFields, knownIDs map[string]string) ([]models.ProductRecord, error) {
	current := []models.ProductRecord{}
	seen := make(map[string]struct{}, len(raws))

	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, dup := seen[raw.Name]; dup {
			log.Printf("[%d/%d] Duplicate listing entry %q, keeping first", i+1, len(raws), raw.Name)
			continue
		}
		seen[raw.Name] = struct{}{}

		imageID, err := w.Resolver.ResolveImage(ctx, knownIDs, raw.Name, raw.ImageReference)
		if err != nil {
			var assetErr *assets.AssetFetchError
			if errors.As(err, &assetErr) && ctx.Err() == nil {
				log.Printf("[%d/%d] Skipping %q this cycle: %v", i+1, len(raws), raw.Name, err)
				continue
			}
			return nil, err
		}

		current = append(current, models.ProductRecord{
			Name:     raw.Name,
			PageURL:  w.ResolvePageURL(raw.PageURLFragment),
			ImageID:  imageID,
			ImageURL: raw.ImageReference,
			Price:    raw.PriceText,
		})
	}
	return current, nil
}

// notifyAll sends exactly one notification per new product, stamped with
// the persistence time. Delivery failures are logged and recorded but do
// not roll back anything; the store is the source of truth.
func (w *Watcher) notifyAll(fresh []models.ProductRecord, sentAt time.Time) int {
	delivered := 0
	for _, rec := range fresh {
		err := w.Notifier.Notify(notify.NewProductEvent{
			Title:    rec.Name,
			Price:    rec.Price,
			Link:     rec.PageURL,
			ImageURL: rec.ImageURL,
		})
		if err != nil {
			log.Printf("Notification for %q failed: %v", rec.Name, err)
		} else {
			delivered++
			log.Printf("Notified: %s (%s)", rec.Name, rec.Price)
		}
		if w.Ledger != nil {
			if lerr := w.Ledger.RecordNotification(rec, sentAt, err); lerr != nil {
				log.Printf("History write failed for %q: %v", rec.Name, lerr)
			}
		}
	}
	return delivered
}

func (w *Watcher) abort(stats models.CycleStats, state string, err error) (models.CycleStats, error) {
	stats.State = state
	stats.Error = err.Error()
	stats.FinishedAt = time.Now()
	log.Printf("Cycle aborted while %s: %v", state, err)
	w.record(stats)
	return stats, err
}

func (w *Watcher) record(stats models.CycleStats) {
	if w.Ledger == nil {
		return
	}
	if err := w.Ledger.RecordCycle(stats); err != nil {
		log.Printf("History write failed for cycle: %v", err)
	}
}

// Run executes one immediate cycle and then one per tick until ctx is
// cancelled. The loop is a single goroutine, so cycles can never overlap;
// a tick that fires while a cycle is still running is dropped.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Watcher started, interval %v", interval)

	if _, err := w.RunCycle(ctx); err != nil && ctx.Err() != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Watcher stopping: context cancelled")
			return
		case <-ticker.C:
			if _, err := w.RunCycle(ctx); err != nil && ctx.Err() != nil {
				return
			}
		}
	}
}
