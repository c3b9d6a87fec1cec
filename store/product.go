package store

import (
	"fmt"

	"github.com/shopmirror/shopstore/ledger"
	"github.com/shopmirror/shopstore/models"
)

// ProductFilter narrows ListProducts results. Nil fields match
// everything.
type ProductFilter struct {
	Category *string
	InStock  *bool
}

// ListProducts returns the products matching the filter, in insertion
// order.
func (s *Store) ListProducts(f ProductFilter) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if f.Category != nil && p.Category != *f.Category {
			continue
		}
		if f.InStock != nil && p.InStock != *f.InStock {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GetProduct returns the product with the given id.
func (s *Store) GetProduct(id int) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

// CreateProduct assigns the next dense id, stores the product and
// ledgers a create operation.
func (s *Store) CreateProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextProductID()
	s.products = append(s.products, p)
	s.ledger.Append(ledger.NewProductCreate(p))
	s.events.Publish(fmt.Sprintf("product/%d", p.ID), p)
	return p
}

// UpdateProduct merges the patch into the product with the given id and
// ledgers an update operation carrying the patch.
func (s *Store) UpdateProduct(id int, patch models.ProductPatch) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		patch.Apply(&s.products[i])
		s.ledger.Append(ledger.NewProductUpdate(id, patch))
		s.events.Publish(fmt.Sprintf("product/%d", id), s.products[i])
		return s.products[i], nil
	}
	return models.Product{}, ErrNotFound
}

// DeleteProduct removes the product with the given id and ledgers a
// delete operation.
func (s *Store) DeleteProduct(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		s.products = append(s.products[:i], s.products[i+1:]...)
		s.ledger.Append(ledger.NewProductDelete(id))
		s.events.Publish(fmt.Sprintf("product/%d", id), nil)
		return nil
	}
	return ErrNotFound
}
