// Package secondary abstracts the external document store that the
// drainer replicates into. The primary API never depends on this store
// being reachable: every call here returns an error on failure and the
// caller decides whether to retry (the drainer always does, on its next
// cycle).
package secondary

import (
	"context"

	"github.com/shopmirror/shopstore/models"
)

// Adapter is the narrow contract the replication core requires from the
// secondary store. Natural keys (product id, user id) correlate primary
// and secondary records; the secondary store's internal identifiers never
// leak through this interface.
type Adapter interface {
	CreateProduct(ctx context.Context, p models.Product) error
	FindProduct(ctx context.Context, id int) (models.Product, error)
	UpdateProduct(ctx context.Context, id int, patch models.ProductPatch) error
	DeleteProduct(ctx context.Context, id int) error

	CreateOrder(ctx context.Context, o models.Order) error
	CreateCart(ctx context.Context, c models.Cart) error

	// AddCartItem upserts the user's cart document and adds the line item
	// with set semantics: an identical existing line is not duplicated.
	AddCartItem(ctx context.Context, userID int, item models.CartItem) error
	// RemoveCartItem pulls the given product line from the user's cart
	// document.
	RemoveCartItem(ctx context.Context, userID, productID int) error

	// Fetch methods hydrate the primary store at startup when no local
	// snapshot exists.
	FetchProducts(ctx context.Context) ([]models.Product, error)
	FetchOrders(ctx context.Context) ([]models.Order, error)
	FetchCarts(ctx context.Context) ([]models.Cart, error)
}
