package store

import (
	"fmt"

	"github.com/shopmirror/shopstore/ledger"
	"github.com/shopmirror/shopstore/models"
)

const (
	defaultUserID  = 1
	statusComplete = "Completed"
)

// CreateOrder assigns the next dense id, defaults the user and status,
// stores the order and ledgers a create operation.
func (s *Store) CreateOrder(o models.Order) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.UserID == 0 {
		o.UserID = defaultUserID
	}
	o.ID = s.nextOrderID()
	o.Status = statusComplete

	s.orders = append(s.orders, o)
	s.ledger.Append(ledger.NewOrderCreate(o))
	s.events.Publish(fmt.Sprintf("order/%d", o.ID), o)
	return o
}

// OrdersByUser returns the user's orders with totals recomputed from the
// current product prices on every call. A line whose product no longer
// exists contributes nothing to the total.
func (s *Store) OrdersByUser(userID int) []models.OrderView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var views []models.OrderView
	for _, o := range s.orders {
		if o.UserID != userID {
			continue
		}
		views = append(views, models.OrderView{Order: o, TotalPrice: s.orderTotal(o)})
	}
	return views
}

// orderTotal requires at least a read lock.
func (s *Store) orderTotal(o models.Order) float64 {
	var total float64
	for _, line := range o.Products {
		for _, p := range s.products {
			if p.ID == line.ProductID {
				total += float64(line.Quantity) * p.Price
				break
			}
		}
	}
	return total
}
