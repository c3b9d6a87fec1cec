package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/shopmirror/shopstore/secondary"
	"github.com/shopmirror/shopstore/utils/log"
)

const (
	productsFile = "products.json"
	ordersFile   = "orders.json"
	cartsFile    = "carts.json"
)

// Save writes a full snapshot of all three collections to rootDir, one
// file per collection. Each file is written to a temp file and renamed
// into place, so a crash mid-write can corrupt at most the file being
// written, never cross-collection consistency. Returns the total bytes
// written.
func (s *Store) Save(rootDir string) (int64, error) {
	// Held across the writes so a snapshot is internally consistent even
	// if a mutation arrives mid-save.
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, c := range []struct {
		name string
		data interface{}
	}{
		{productsFile, s.products},
		{ordersFile, s.orders},
		{cartsFile, s.carts},
	} {
		n, err := writeCollection(filepath.Join(rootDir, c.name), c.data)
		if err != nil {
			return total, errors.Wrapf(err, "failed to snapshot %s", c.name)
		}
		total += n
	}
	return total, nil
}

func writeCollection(path string, data interface{}) (int64, error) {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return 0, err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, err
	}
	return int64(len(buf)), nil
}

// Load hydrates the store at startup. Per collection: prefer the local
// snapshot file; otherwise fall back to the secondary store; on total
// failure start empty. Once loaded, the secondary store is never used as
// a read source again.
func (s *Store) Load(ctx context.Context, rootDir string, sec secondary.Adapter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = nil
	if !readCollection(filepath.Join(rootDir, productsFile), &s.products) {
		products, err := sec.FetchProducts(ctx)
		if err != nil {
			log.Error("failed to load products from secondary store: %v", err)
		} else {
			s.products = products
		}
	}

	s.orders = nil
	if !readCollection(filepath.Join(rootDir, ordersFile), &s.orders) {
		orders, err := sec.FetchOrders(ctx)
		if err != nil {
			log.Error("failed to load orders from secondary store: %v", err)
		} else {
			s.orders = orders
		}
	}

	s.carts = nil
	if !readCollection(filepath.Join(rootDir, cartsFile), &s.carts) {
		s.carts = map[int]map[int]int{}
		docs, err := sec.FetchCarts(ctx)
		if err != nil {
			log.Error("failed to load carts from secondary store: %v", err)
		} else {
			// The secondary store keeps carts as line-item lists; flatten
			// them into the sparse map, summing duplicate product lines.
			for _, doc := range docs {
				cart, ok := s.carts[doc.UserID]
				if !ok {
					cart = map[int]int{}
					s.carts[doc.UserID] = cart
				}
				for id, qty := range doc.Lines() {
					cart[id] += qty
				}
			}
		}
	}
	// A snapshot written before any cart existed decodes to nil.
	if s.carts == nil {
		s.carts = map[int]map[int]int{}
	}
}

// readCollection reports whether the local snapshot was usable.
func readCollection(path string, out interface{}) bool {
	buf, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error("failed to read snapshot %s: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(buf, out); err != nil {
		log.Error("failed to decode snapshot %s: %v", path, err)
		return false
	}
	return true
}
