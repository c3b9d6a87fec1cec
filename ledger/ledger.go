// Package ledger implements the append-only operation log that decouples
// primary-store mutations from secondary-store replication. Request
// handlers append one operation per mutation; the drainer walks a stable
// snapshot of the log and removes entries once the secondary store has
// confirmed them. Entries that fail to apply stay in the log and are
// retried on the next drain cycle.
package ledger

import (
	"sync"
)

// Ledger is a strictly ordered, append-only sequence of pending
// operations. It is safe for concurrent use: request handlers append
// while a drain cycle iterates over an earlier snapshot.
type Ledger struct {
	mu  sync.Mutex
	ops []*Operation
}

func New() *Ledger {
	return &Ledger{}
}

// Append adds op to the tail of the log. It never fails and preserves
// the order in which primary-store mutations were applied.
func (l *Ledger) Append(op *Operation) {
	l.mu.Lock()
	l.ops = append(l.ops, op)
	l.mu.Unlock()
}

// Snapshot returns a stable copy of the current log contents for
// iteration. Removal during iteration over the snapshot cannot skip or
// reprocess entries, and appends that land mid-drain are simply observed
// by the next cycle.
func (l *Ledger) Snapshot() []*Operation {
	l.mu.Lock()
	defer l.mu.Unlock()
	ops := make([]*Operation, len(l.ops))
	copy(ops, l.ops)
	return ops
}

// Remove deletes one instance of op from the log, compacting the
// sequence. Removal is by identity, not by index, so concurrent appends
// cannot shift the target. Removing an entry that is already gone is a
// no-op.
func (l *Ledger) Remove(op *Operation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, o := range l.ops {
		if o == op {
			l.ops = append(l.ops[:i], l.ops[i+1:]...)
			return
		}
	}
}

// Len reports the number of pending operations.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ops)
}
