package store

import (
	"fmt"

	"github.com/shopmirror/shopstore/ledger"
	"github.com/shopmirror/shopstore/models"
)

// AddCartItem accumulates quantity for the product in the user's cart.
// The first item for a user ledgers a Create carrying the full one-line
// cart document; subsequent items ledger an Update carrying just the
// line. Returns the cart's current quantity map.
func (s *Store) AddCartItem(userID, productID, quantity int) map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.CartItem{ProductID: productID, Quantity: quantity}

	cart, ok := s.carts[userID]
	if !ok {
		cart = map[int]int{}
		s.carts[userID] = cart
		s.ledger.Append(ledger.NewCartCreate(models.Cart{
			UserID:   userID,
			Products: []models.CartItem{item},
		}))
	} else {
		s.ledger.Append(ledger.NewCartAdd(userID, item))
	}
	cart[productID] += quantity

	s.events.Publish(fmt.Sprintf("cart/%d", userID), copyLines(cart))
	return copyLines(cart)
}

// RemoveCartItem drops the product line from the user's cart and ledgers
// an Update carrying the product key, which the drainer translates into
// a pull on the secondary document.
func (s *Store) RemoveCartItem(userID, productID int) (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if _, ok := cart[productID]; !ok {
		return nil, ErrNotFound
	}

	s.ledger.Append(ledger.NewCartRemove(userID, productID))
	delete(cart, productID)

	s.events.Publish(fmt.Sprintf("cart/%d", userID), copyLines(cart))
	return copyLines(cart), nil
}

// Cart returns the user's quantity map, or false when the user has no
// cart.
func (s *Store) Cart(userID int) (map[int]int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, false
	}
	return copyLines(cart), true
}

// CartDetail joins the user's cart lines against the live catalog and
// totals them at current prices. Lines whose product no longer exists
// are dropped from the view.
func (s *Store) CartDetail(userID int) (models.CartView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return models.CartView{}, false
	}

	view := models.CartView{Cart: []models.CartLine{}}
	for _, p := range s.products {
		qty, ok := cart[p.ID]
		if !ok {
			continue
		}
		view.Cart = append(view.Cart, models.CartLine{Product: p, Quantity: qty})
		view.TotalPrice += float64(qty) * p.Price
	}
	return view, true
}

func copyLines(cart map[int]int) map[int]int {
	out := make(map[int]int, len(cart))
	for id, qty := range cart {
		out[id] = qty
	}
	return out
}
