// Package store holds the authoritative in-memory state: products,
// orders and per-user carts. Mutations are serialized under a single
// write lock, and every mutation appends exactly one operation to the
// ledger before the lock is released, so the ledger order always matches
// the primary mutation order. The secondary store is never consulted on
// the request path.
package store

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/shopmirror/shopstore/ledger"
	"github.com/shopmirror/shopstore/models"
)

// ErrNotFound is returned when a natural key has no record in the
// primary store. It surfaces to the caller as a 404 and never reaches
// the ledger.
var ErrNotFound = errors.New("not found")

// EventSink receives mutation notifications keyed by "entity/id".
type EventSink interface {
	Publish(key string, data interface{})
}

type noopSink struct{}

func (noopSink) Publish(string, interface{}) {}

// Store is the primary in-memory store. Carts are kept as a sparse
// userID -> productID -> quantity map; the list-of-line-items document
// shape exists only at the secondary store boundary.
type Store struct {
	mu       sync.RWMutex
	products []models.Product
	orders   []models.Order
	carts    map[int]map[int]int

	ledger *ledger.Ledger
	events EventSink
}

// Option configures a Store.
type Option func(*Store)

// WithEvents wires a mutation event sink, e.g. the websocket stream.
func WithEvents(sink EventSink) Option {
	return func(s *Store) {
		if sink != nil {
			s.events = sink
		}
	}
}

// NewStore builds an empty store feeding the given ledger.
func NewStore(led *ledger.Ledger, opts ...Option) *Store {
	s := &Store{
		carts:  map[int]map[int]int{},
		ledger: led,
		events: noopSink{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextProductID assigns ids densely: last id + 1, or 1 when empty. Ids
// are not reused after a delete, so density is not guaranteed
// post-delete. Callers must hold the write lock.
func (s *Store) nextProductID() int {
	if n := len(s.products); n > 0 {
		return s.products[n-1].ID + 1
	}
	return 1
}

func (s *Store) nextOrderID() int {
	if n := len(s.orders); n > 0 {
		return s.orders[n-1].ID + 1
	}
	return 1
}
