package domain

import "time"

// Product is owned by the catalog; the cart service only reads it to
// snapshot prices and check stock.
type Product struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Price     float64   `bson:"price" json:"price"`
	Stock     int       `bson:"stock" json:"stock"`
	ImageURL  string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}
