package models

// Product is a catalog entry. ID is the natural key shared with the
// secondary store; it is assigned densely by the primary store and is
// never reused after a delete.
type Product struct {
	ID       int     `json:"id" msgpack:"id"`
	Name     string  `json:"name" msgpack:"name"`
	Price    float64 `json:"price" msgpack:"price"`
	Category string  `json:"category" msgpack:"category"`
	InStock  bool    `json:"inStock" msgpack:"inStock"`
}

// ProductPatch is a partial product update. Nil fields are left untouched.
type ProductPatch struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Category *string  `json:"category,omitempty"`
	InStock  *bool    `json:"inStock,omitempty"`
}

// Apply merges the patch into p.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.InStock != nil {
		p.InStock = *pp.InStock
	}
}
