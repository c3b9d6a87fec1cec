// Package replication applies pending ledger operations to the secondary
// store. Replication is asynchronous and best-effort: the drainer runs on
// a fixed timer, walks the ledger in append order and removes entries the
// secondary store has confirmed. Entries that fail stay in the ledger and
// are retried every cycle until they succeed, with no backoff, cutoff or
// dead-lettering. Primary API availability is never coupled to secondary
// store health.
package replication

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/shopmirror/shopstore/ledger"
	"github.com/shopmirror/shopstore/metrics"
	"github.com/shopmirror/shopstore/secondary"
	"github.com/shopmirror/shopstore/utils/log"
)

// Drainer periodically drains the ledger into the secondary store.
type Drainer struct {
	ledger    *ledger.Ledger
	secondary secondary.Adapter
	interval  time.Duration
	timeout   time.Duration

	// draining is a single-flight guard: if a cycle is still running when
	// the ticker fires, the new cycle is skipped rather than overlapped.
	draining uint32
}

func NewDrainer(led *ledger.Ledger, sec secondary.Adapter, interval, timeout time.Duration) *Drainer {
	return &Drainer{
		ledger:    led,
		secondary: sec,
		interval:  interval,
		timeout:   timeout,
	}
}

// Run starts the drain loop. It returns immediately; the loop stops when
// ctx is canceled.
func (d *Drainer) Run(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info("shutdown ledger drainer...")
				return
			case <-ticker.C:
				if !atomic.CompareAndSwapUint32(&d.draining, 0, 1) {
					log.Warn("previous drain cycle still running, skipping this cycle")
					continue
				}
				d.DrainOnce(ctx)
				atomic.StoreUint32(&d.draining, 0)
			}
		}
	}()
}

// DrainOnce walks a stable snapshot of the ledger in FIFO order and
// applies each operation to the secondary store. Confirmed operations
// are removed; failed ones are logged and left for the next cycle.
// Appends that land while the walk is in progress are picked up next
// cycle. Returns the number of applied and remaining operations.
//
// No causal ordering is assumed beyond append order: an update whose
// create has not reached the secondary store yet simply fails this cycle
// and succeeds on a later one.
func (d *Drainer) DrainOnce(ctx context.Context) (applied, remaining int) {
	ops := d.ledger.Snapshot()
	if len(ops) == 0 {
		metrics.LedgerPendingOps.Set(0)
		return 0, 0
	}

	start := time.Now()
	log.Debug("draining ledger: %d pending operations", len(ops))
	for _, op := range ops {
		if ctx.Err() != nil {
			break
		}
		if err := d.apply(ctx, op); err != nil {
			metrics.DrainFailedTotal.Inc()
			log.Error("failed to replicate %v to secondary store: %v", op, err)
			continue
		}
		d.ledger.Remove(op)
		metrics.DrainAppliedTotal.WithLabelValues(op.Kind.String(), op.Entity.String()).Inc()
		applied++
	}
	remaining = d.ledger.Len()
	metrics.LedgerPendingOps.Set(float64(remaining))
	metrics.DrainCycleDuration.Observe(time.Since(start).Seconds())
	log.Info("drain cycle done: %d applied, %d remaining", applied, remaining)
	return applied, remaining
}

// apply dispatches one operation by its (kind, entity) pair. Every call
// against the secondary store is bounded by the configured timeout so an
// unreachable store cannot delay the next cycle indefinitely.
func (d *Drainer) apply(ctx context.Context, op *ledger.Operation) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	switch op.Kind {
	case ledger.Create:
		switch op.Entity {
		case ledger.Product:
			return d.secondary.CreateProduct(ctx, *op.Product)
		case ledger.Order:
			return d.secondary.CreateOrder(ctx, *op.Order)
		case ledger.Cart:
			return d.secondary.CreateCart(ctx, *op.Cart)
		}
	case ledger.Update:
		switch op.Entity {
		case ledger.Product:
			// Look up by natural key first: an update racing ahead of its
			// create must fail retryably, not create a phantom record.
			if _, err := d.secondary.FindProduct(ctx, op.EntityID); err != nil {
				return err
			}
			return d.secondary.UpdateProduct(ctx, op.EntityID, *op.Patch)
		case ledger.Cart:
			// Removal ops carry no line-item payload, only the product
			// key. Dispatch on payload presence: product ids are not
			// validated upstream, so 0 is a legal key.
			if op.Item != nil {
				return d.secondary.AddCartItem(ctx, op.UserID, *op.Item)
			}
			return d.secondary.RemoveCartItem(ctx, op.UserID, op.ProductID)
		}
	case ledger.Delete:
		if op.Entity == ledger.Product {
			if _, err := d.secondary.FindProduct(ctx, op.EntityID); err != nil {
				return err
			}
			return d.secondary.DeleteProduct(ctx, op.EntityID)
		}
	}
	return errors.Errorf("unknown operation %v/%v", op.Kind, op.Entity)
}
