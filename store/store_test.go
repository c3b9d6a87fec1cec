package store_test

import (
	"testing"

	. "gopkg.in/check.v1"

	"github.com/shopmirror/shopstore/ledger"
	"github.com/shopmirror/shopstore/models"
	"github.com/shopmirror/shopstore/store"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

var _ = Suite(&StoreTests{})

type StoreTests struct {
	led   *ledger.Ledger
	store *store.Store
}

func (s *StoreTests) SetUpTest(c *C) {
	s.led = ledger.New()
	s.store = store.NewStore(s.led)
}

func (s *StoreTests) TestCreateProductAssignsDenseIDs(c *C) {
	first := s.store.CreateProduct(models.Product{Name: "mug", Price: 4.5})
	second := s.store.CreateProduct(models.Product{Name: "cap", Price: 9})

	c.Assert(first.ID, Equals, 1)
	c.Assert(second.ID, Equals, 2)

	// Deleting a middle product breaks density but the next id still
	// follows the last element.
	c.Assert(s.store.DeleteProduct(1), IsNil)
	third := s.store.CreateProduct(models.Product{Name: "pin"})
	c.Assert(third.ID, Equals, 3)
}

func (s *StoreTests) TestEveryMutationLedgersExactlyOneOp(c *C) {
	s.store.CreateProduct(models.Product{Name: "mug"})
	c.Assert(s.led.Len(), Equals, 1)

	name := "cup"
	_, err := s.store.UpdateProduct(1, models.ProductPatch{Name: &name})
	c.Assert(err, IsNil)
	c.Assert(s.led.Len(), Equals, 2)

	c.Assert(s.store.DeleteProduct(1), IsNil)
	c.Assert(s.led.Len(), Equals, 3)

	// Failed mutations never reach the ledger.
	_, err = s.store.UpdateProduct(42, models.ProductPatch{})
	c.Assert(err, Equals, store.ErrNotFound)
	c.Assert(s.led.Len(), Equals, 3)
}

func (s *StoreTests) TestUpdateProductMergesPatch(c *C) {
	s.store.CreateProduct(models.Product{Name: "mug", Price: 4.5, Category: "kitchen", InStock: true})

	price := 5.0
	updated, err := s.store.UpdateProduct(1, models.ProductPatch{Price: &price})
	c.Assert(err, IsNil)
	c.Assert(updated.Price, Equals, 5.0)
	c.Assert(updated.Name, Equals, "mug")
	c.Assert(updated.InStock, Equals, true)
}

func (s *StoreTests) TestListProductsFilters(c *C) {
	s.store.CreateProduct(models.Product{Name: "mug", Category: "kitchen", InStock: true})
	s.store.CreateProduct(models.Product{Name: "cap", Category: "apparel", InStock: false})
	s.store.CreateProduct(models.Product{Name: "pan", Category: "kitchen", InStock: false})

	kitchen := "kitchen"
	inStock := false

	c.Assert(s.store.ListProducts(store.ProductFilter{}), HasLen, 3)
	c.Assert(s.store.ListProducts(store.ProductFilter{Category: &kitchen}), HasLen, 2)

	got := s.store.ListProducts(store.ProductFilter{Category: &kitchen, InStock: &inStock})
	c.Assert(got, HasLen, 1)
	c.Assert(got[0].Name, Equals, "pan")
}

func (s *StoreTests) TestOrderDefaultsAndDerivedTotal(c *C) {
	s.store.CreateProduct(models.Product{Name: "mug", Price: 10})

	order := s.store.CreateOrder(models.Order{
		Products: []models.OrderItem{{ProductID: 1, Quantity: 3}},
	})
	c.Assert(order.ID, Equals, 1)
	c.Assert(order.UserID, Equals, 1) // defaulted
	c.Assert(order.Status, Equals, "Completed")

	views := s.store.OrdersByUser(1)
	c.Assert(views, HasLen, 1)
	c.Assert(views[0].TotalPrice, Equals, 30.0)

	// Totals are recomputed from live prices on every read.
	price := 20.0
	_, err := s.store.UpdateProduct(1, models.ProductPatch{Price: &price})
	c.Assert(err, IsNil)

	views = s.store.OrdersByUser(1)
	c.Assert(views[0].TotalPrice, Equals, 60.0)
}

func (s *StoreTests) TestCartQuantityAccumulates(c *C) {
	// Adding 2 then 3 must equal adding 5 once.
	s.store.AddCartItem(1, 5, 2)
	cart := s.store.AddCartItem(1, 5, 3)
	c.Assert(cart[5], Equals, 5)

	other := s.store.AddCartItem(2, 5, 5)
	c.Assert(other[5], Equals, cart[5])
}

func (s *StoreTests) TestCartAddThenRemove(c *C) {
	s.store.AddCartItem(1, 5, 2)
	cart, err := s.store.RemoveCartItem(1, 5)
	c.Assert(err, IsNil)
	c.Assert(cart, HasLen, 0)

	// Two operations ledgered: the initial create and the removal
	// carrying the product key.
	ops := s.led.Snapshot()
	c.Assert(ops, HasLen, 2)
	c.Assert(ops[0].Kind, Equals, ledger.Create)
	c.Assert(ops[0].Entity, Equals, ledger.Cart)
	c.Assert(ops[1].Kind, Equals, ledger.Update)
	c.Assert(ops[1].Entity, Equals, ledger.Cart)
	c.Assert(ops[1].ProductID, Equals, 5)

	// The primary cart has no line for the removed product.
	lines, ok := s.store.Cart(1)
	c.Assert(ok, Equals, true)
	c.Assert(lines, HasLen, 0)
}

func (s *StoreTests) TestCartFirstAddCreatesThenUpdates(c *C) {
	s.store.AddCartItem(1, 5, 2)
	s.store.AddCartItem(1, 6, 1)

	ops := s.led.Snapshot()
	c.Assert(ops, HasLen, 2)
	c.Assert(ops[0].Kind, Equals, ledger.Create)
	c.Assert(ops[0].Cart.Products, DeepEquals, []models.CartItem{{ProductID: 5, Quantity: 2}})
	c.Assert(ops[1].Kind, Equals, ledger.Update)
	c.Assert(*ops[1].Item, Equals, models.CartItem{ProductID: 6, Quantity: 1})
}

func (s *StoreTests) TestRemoveCartItemNotFound(c *C) {
	_, err := s.store.RemoveCartItem(1, 5)
	c.Assert(err, Equals, store.ErrNotFound)

	s.store.AddCartItem(1, 5, 1)
	_, err = s.store.RemoveCartItem(1, 99)
	c.Assert(err, Equals, store.ErrNotFound)
}

func (s *StoreTests) TestCartDetailJoinsLiveCatalog(c *C) {
	s.store.CreateProduct(models.Product{Name: "mug", Price: 4, InStock: true})
	s.store.AddCartItem(1, 1, 2)
	s.store.AddCartItem(1, 99, 1) // no such product

	view, ok := s.store.CartDetail(1)
	c.Assert(ok, Equals, true)
	c.Assert(view.Cart, HasLen, 1)
	c.Assert(view.Cart[0].Name, Equals, "mug")
	c.Assert(view.Cart[0].Quantity, Equals, 2)
	c.Assert(view.TotalPrice, Equals, 8.0)

	_, ok = s.store.CartDetail(42)
	c.Assert(ok, Equals, false)
}
