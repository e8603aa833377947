package workorder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

//go:generate mockgen -source=cache.go -destination=lister_mock.go -package=workorder
type Lister interface {
	ListWorkOrders(ctx context.Context) ([]WorkOrder, error)
}

// Cache is a read-through cache over the full work-order collection, keyed by
// the single today-query the backend exposes. A background poll catches
// externally-originated changes (technician-submitted reports); mutations
// never patch the cached copy, they Invalidate and let the next read refetch.
type Cache struct {
	lister   Lister
	interval time.Duration

	mu        sync.Mutex
	records   []WorkOrder
	fetchedAt time.Time
}

func NewCache(lister Lister, interval time.Duration) *Cache {
	return &Cache{lister: lister, interval: interval}
}

// Snapshot returns the cached collection, fetching from the backend when the
// cache is empty, invalidated, or older than the poll interval. Callers must
// not mutate the returned slice.
func (c *Cache) Snapshot(ctx context.Context) ([]WorkOrder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.records != nil && time.Since(c.fetchedAt) < c.interval {
		return c.records, nil
	}

	records, err := c.lister.ListWorkOrders(ctx)
	if err != nil {
		// Serve the stale copy if we have one; the poll will retry.
		if c.records != nil {
			return c.records, nil
		}

		return nil, fmt.Errorf("listing work orders: %w", err)
	}

	c.records = records
	c.fetchedAt = time.Now()

	return c.records, nil
}

// Invalidate marks the cached collection stale so the next Snapshot
// refetches. The records themselves are kept: if that refetch fails the
// stale copy is still served. Called after every successful mutation batch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetchedAt = time.Time{}
}

// Active returns the non soft-deleted subset.
func (c *Cache) Active(ctx context.Context) ([]WorkOrder, error) {
	return c.filtered(ctx, false)
}

// Deleted returns the soft-deleted subset shown in History. It is a local
// filter over the same collection, not a separate fetch.
func (c *Cache) Deleted(ctx context.Context) ([]WorkOrder, error) {
	return c.filtered(ctx, true)
}

func (c *Cache) filtered(ctx context.Context, deleted bool) ([]WorkOrder, error) {
	records, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]WorkOrder, 0, len(records))

	for _, wo := range records {
		if wo.IsDeleted == deleted {
			out = append(out, wo)
		}
	}

	return out, nil
}

// refresh fetches unconditionally and keeps the stale copy on failure.
func (c *Cache) refresh(ctx context.Context) error {
	records, err := c.lister.ListWorkOrders(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.records = records
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return nil
}

// Run polls the backend on the configured interval until ctx is done.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.refresh(ctx); err != nil {
				slog.Warn("work order poll failed", "error", err)
			}
		}
	}
}
