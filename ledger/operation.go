package ledger

import (
	"fmt"

	"github.com/shopmirror/shopstore/models"
)

// Kind is the change type a ledger operation propagates.
type Kind int

const (
	Create Kind = iota
	Update
	Delete
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Entity is the collection a ledger operation targets.
type Entity int

const (
	Product Entity = iota
	Order
	Cart
)

func (e Entity) String() string {
	switch e {
	case Product:
		return "product"
	case Order:
		return "order"
	case Cart:
		return "cart"
	}
	return fmt.Sprintf("entity(%d)", int(e))
}

// Operation is a single pending change awaiting propagation to the
// secondary store. Operations are immutable once appended: one is created
// per mutating request and removed only after a confirmed successful
// application. The legal (Kind, Entity) combinations are built via the
// NewXxx constructors below; the drainer matches on them exhaustively.
//
// Natural keys: EntityID correlates products, UserID correlates carts.
// An Update/Cart carrying a line-item payload signifies an addition; one
// carrying only the product key signifies removal of that line. Product
// ids are not validated upstream, so 0 is a legal key and payload
// presence is the discriminator.
type Operation struct {
	Kind   Kind
	Entity Entity

	EntityID  int
	UserID    int
	ProductID int

	Product *models.Product
	Patch   *models.ProductPatch
	Order   *models.Order
	Cart    *models.Cart
	Item    *models.CartItem
}

// NewProductCreate records the insert of a full product payload.
func NewProductCreate(p models.Product) *Operation {
	return &Operation{Kind: Create, Entity: Product, EntityID: p.ID, Product: &p}
}

// NewProductUpdate records a partial update of the product with the given
// natural key.
func NewProductUpdate(id int, patch models.ProductPatch) *Operation {
	return &Operation{Kind: Update, Entity: Product, EntityID: id, Patch: &patch}
}

// NewProductDelete records the removal of the product with the given
// natural key.
func NewProductDelete(id int) *Operation {
	return &Operation{Kind: Delete, Entity: Product, EntityID: id}
}

// NewOrderCreate records the insert of a full order payload.
func NewOrderCreate(o models.Order) *Operation {
	return &Operation{Kind: Create, Entity: Order, EntityID: o.ID, Order: &o}
}

// NewCartCreate records the insert of a user's first cart document.
func NewCartCreate(c models.Cart) *Operation {
	return &Operation{Kind: Create, Entity: Cart, UserID: c.UserID, Cart: &c}
}

// NewCartAdd records the addition of a line item to an existing cart.
func NewCartAdd(userID int, item models.CartItem) *Operation {
	return &Operation{Kind: Update, Entity: Cart, UserID: userID, Item: &item}
}

// NewCartRemove records the removal of a product line from a cart.
func NewCartRemove(userID, productID int) *Operation {
	return &Operation{Kind: Update, Entity: Cart, UserID: userID, ProductID: productID}
}

func (op *Operation) String() string {
	switch op.Entity {
	case Cart:
		if op.Kind == Update && op.Item == nil {
			return fmt.Sprintf("%v/%v user=%d product=%d", op.Kind, op.Entity, op.UserID, op.ProductID)
		}
		return fmt.Sprintf("%v/%v user=%d", op.Kind, op.Entity, op.UserID)
	default:
		return fmt.Sprintf("%v/%v id=%d", op.Kind, op.Entity, op.EntityID)
	}
}
