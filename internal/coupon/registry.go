package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/webstore/cart-service/internal/domain"
)

var ErrCouponNotFound = errors.New("coupon not found or expired")

// CouponRegistry looks up coupons that are still valid at the given time.
type CouponRegistry interface {
	FindValid(ctx context.Context, code string, now time.Time) (*domain.Coupon, error)
}
