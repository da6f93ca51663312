package domain

import "time"

// Coupon grants a percentage discount until its expiry.
type Coupon struct {
	ID       string    `bson:"_id,omitempty" json:"id"`
	Code     string    `bson:"code" json:"code"`
	Discount int       `bson:"discount" json:"discount"`
	Expire   time.Time `bson:"expire" json:"expire"`
}
