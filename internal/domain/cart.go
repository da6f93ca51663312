package domain

import "time"

type Cart struct {
	ID                      string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID                  string     `bson:"user_id" json:"user_id"`
	Items                   []CartItem `bson:"cart_items" json:"cart_items"`
	TotalPrice              float64    `bson:"total_price" json:"total_price"`
	Discount                int        `bson:"discount,omitempty" json:"discount,omitempty"`
	TotalPriceAfterDiscount *float64   `bson:"total_price_after_discount,omitempty" json:"total_price_after_discount,omitempty"`
	CreatedAt               time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt               time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ID        string    `bson:"item_id" json:"item_id"`
	ProductID string    `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Price     float64   `bson:"price" json:"price"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`

	// Product is resolved from the catalog on reads, never persisted.
	Product *Product `bson:"-" json:"product,omitempty"`
}

// RecomputeTotals derives TotalPrice from the items and, when a discount
// is applied, TotalPriceAfterDiscount from TotalPrice. Must run as the
// last step before every persist that touches items, discount or totals.
func (c *Cart) RecomputeTotals() {
	var total float64
	for _, item := range c.Items {
		total += float64(item.Quantity) * item.Price
	}
	c.TotalPrice = total

	if c.Discount != 0 {
		discounted := total - total*float64(c.Discount)/100
		c.TotalPriceAfterDiscount = &discounted
	}
}

// FindItem returns the item with the given id, or nil.
func (c *Cart) FindItem(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindItemByProduct returns the item holding the given product, or nil.
func (c *Cart) FindItemByProduct(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
