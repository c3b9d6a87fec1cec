package store_test

import (
	"context"
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/pkg/errors"

	"github.com/shopmirror/shopstore/ledger"
	"github.com/shopmirror/shopstore/models"
	"github.com/shopmirror/shopstore/store"
)

var _ = Suite(&SnapshotTests{})

type SnapshotTests struct {
	rootDir string
}

func (s *SnapshotTests) SetUpTest(c *C) {
	s.rootDir = c.MkDir()
}

// hydrationSecondary serves canned collections for startup hydration.
// err, when set, makes every fetch fail.
type hydrationSecondary struct {
	products []models.Product
	orders   []models.Order
	carts    []models.Cart
	err      error
}

func (h *hydrationSecondary) FetchProducts(context.Context) ([]models.Product, error) {
	return h.products, h.err
}

func (h *hydrationSecondary) FetchOrders(context.Context) ([]models.Order, error) {
	return h.orders, h.err
}

func (h *hydrationSecondary) FetchCarts(context.Context) ([]models.Cart, error) {
	return h.carts, h.err
}

func (h *hydrationSecondary) CreateProduct(context.Context, models.Product) error { return nil }
func (h *hydrationSecondary) FindProduct(context.Context, int) (models.Product, error) {
	return models.Product{}, errors.New("not implemented")
}
func (h *hydrationSecondary) UpdateProduct(context.Context, int, models.ProductPatch) error {
	return nil
}
func (h *hydrationSecondary) DeleteProduct(context.Context, int) error              { return nil }
func (h *hydrationSecondary) CreateOrder(context.Context, models.Order) error       { return nil }
func (h *hydrationSecondary) CreateCart(context.Context, models.Cart) error         { return nil }
func (h *hydrationSecondary) AddCartItem(context.Context, int, models.CartItem) error {
	return nil
}
func (h *hydrationSecondary) RemoveCartItem(context.Context, int, int) error { return nil }

func (s *SnapshotTests) TestSaveLoadRoundTrip(c *C) {
	st := store.NewStore(ledger.New())
	st.CreateProduct(models.Product{Name: "mug", Price: 4.5, Category: "kitchen", InStock: true})
	st.CreateOrder(models.Order{UserID: 2, Products: []models.OrderItem{{ProductID: 1, Quantity: 2}}})
	st.AddCartItem(2, 1, 3)

	n, err := st.Save(s.rootDir)
	c.Assert(err, IsNil)
	c.Assert(n > 0, Equals, true)

	for _, name := range []string{"products.json", "orders.json", "carts.json"} {
		_, err := os.Stat(filepath.Join(s.rootDir, name))
		c.Assert(err, IsNil)
	}

	// A fresh store prefers the local snapshot; the secondary store must
	// not be consulted.
	restored := store.NewStore(ledger.New())
	restored.Load(context.Background(), s.rootDir, &hydrationSecondary{err: errors.New("unreachable")})

	p, err := restored.GetProduct(1)
	c.Assert(err, IsNil)
	c.Assert(p.Name, Equals, "mug")

	views := restored.OrdersByUser(2)
	c.Assert(views, HasLen, 1)
	c.Assert(views[0].TotalPrice, Equals, 9.0)

	lines, ok := restored.Cart(2)
	c.Assert(ok, Equals, true)
	c.Assert(lines[1], Equals, 3)
}

func (s *SnapshotTests) TestLoadFallsBackToSecondary(c *C) {
	sec := &hydrationSecondary{
		products: []models.Product{{ID: 4, Name: "cap", Price: 9}},
		orders:   []models.Order{{ID: 1, UserID: 3, Status: "Completed"}},
		carts: []models.Cart{
			{UserID: 3, Products: []models.CartItem{
				{ProductID: 4, Quantity: 1},
				{ProductID: 4, Quantity: 2}, // duplicate line, quantities sum
				{ProductID: 7, Quantity: 5},
			}},
		},
	}

	st := store.NewStore(ledger.New())
	st.Load(context.Background(), s.rootDir, sec)

	p, err := st.GetProduct(4)
	c.Assert(err, IsNil)
	c.Assert(p.Name, Equals, "cap")

	lines, ok := st.Cart(3)
	c.Assert(ok, Equals, true)
	c.Assert(lines[4], Equals, 3)
	c.Assert(lines[7], Equals, 5)
}

func (s *SnapshotTests) TestLoadTotalFailureStartsEmpty(c *C) {
	st := store.NewStore(ledger.New())
	st.Load(context.Background(), s.rootDir, &hydrationSecondary{err: errors.New("unreachable")})

	c.Assert(st.ListProducts(store.ProductFilter{}), HasLen, 0)
	c.Assert(st.OrdersByUser(1), HasLen, 0)
	_, ok := st.Cart(1)
	c.Assert(ok, Equals, false)
}

func (s *SnapshotTests) TestCorruptSnapshotFallsThrough(c *C) {
	c.Assert(os.WriteFile(filepath.Join(s.rootDir, "products.json"), []byte("{not json"), 0o600), IsNil)

	sec := &hydrationSecondary{products: []models.Product{{ID: 1, Name: "mug"}}}
	st := store.NewStore(ledger.New())
	st.Load(context.Background(), s.rootDir, sec)

	p, err := st.GetProduct(1)
	c.Assert(err, IsNil)
	c.Assert(p.Name, Equals, "mug")
}
