package service

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrSoldOut         = errors.New("product is sold out")
	ErrInvalidCoupon   = errors.New("coupon is invalid or expired")
)
