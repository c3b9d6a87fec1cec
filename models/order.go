package models

// OrderItem is one product line within an order.
type OrderItem struct {
	ProductID int `json:"productId" msgpack:"productId"`
	Quantity  int `json:"quantity" msgpack:"quantity"`
}

// Order is a placed order. TotalPrice is deliberately absent: totals are
// derived from current product prices at read time, never stored.
type Order struct {
	ID       int         `json:"id" msgpack:"id"`
	UserID   int         `json:"userId" msgpack:"userId"`
	Products []OrderItem `json:"products" msgpack:"products"`
	Status   string      `json:"status" msgpack:"status"`
}

// OrderView is the read representation of an order, carrying the total
// computed against the product catalog at the time of the read.
type OrderView struct {
	Order
	TotalPrice float64 `json:"totalPrice" msgpack:"totalPrice"`
}
