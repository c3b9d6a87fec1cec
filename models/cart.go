package models

// CartItem is one product line within a cart document.
type CartItem struct {
	ProductID int `json:"productId" msgpack:"productId"`
	Quantity  int `json:"quantity" msgpack:"quantity"`
}

// Cart is the document representation of a user's cart, as stored in the
// secondary store. The primary store keeps carts as a sparse
// productID -> quantity map instead; Lines converts between the two.
type Cart struct {
	UserID   int        `json:"userId" msgpack:"userId"`
	Products []CartItem `json:"products" msgpack:"products"`
}

// Lines flattens the document into a quantity map, summing duplicate
// product lines within the document.
func (c Cart) Lines() map[int]int {
	lines := make(map[int]int, len(c.Products))
	for _, item := range c.Products {
		lines[item.ProductID] += item.Quantity
	}
	return lines
}

// CartLine is a joined cart line for read responses: the product record
// plus the carted quantity.
type CartLine struct {
	Product
	Quantity int `json:"quantity" msgpack:"quantity"`
}

// CartView is the read representation of a cart, with the total computed
// from current product prices.
type CartView struct {
	Cart       []CartLine `json:"cart" msgpack:"cart"`
	TotalPrice float64    `json:"total_price" msgpack:"total_price"`
}
