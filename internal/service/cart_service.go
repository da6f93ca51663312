package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/webstore/cart-service/internal/cache"
	"github.com/webstore/cart-service/internal/catalog"
	"github.com/webstore/cart-service/internal/coupon"
	"github.com/webstore/cart-service/internal/domain"
	"github.com/webstore/cart-service/internal/repository"
	"golang.org/x/sync/singleflight"
)

// CartService owns the per-user cart documents: item mutations, stock
// checks against the catalog, price snapshots and total recomputation.
type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog catalog.ProductCatalog
	coupons coupon.CouponRegistry
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(
	repo repository.CartRepository,
	cache cache.CartCache,
	catalog catalog.ProductCatalog,
	coupons coupon.CouponRegistry,
) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cache,
		catalog: catalog,
		coupons: coupons,
	}
}

// AddToCart adds quantity units of a product to the user's cart, creating
// the cart on first use. The item's price is snapshotted from the catalog
// at this moment; later catalog price changes do not touch existing items.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if quantity > product.Stock {
		return nil, ErrSoldOut
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			return nil, err
		}
		cart = &domain.Cart{UserID: userID}
	}

	if item := cart.FindItemByProduct(productID); item != nil {
		// Stock is checked against the quantity already in the cart,
		// not against the incremented quantity.
		if item.Quantity >= product.Stock {
			return nil, ErrSoldOut
		}
		item.Quantity += quantity
		item.Price = product.Price
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
			AddedAt:   time.Now(),
		})
	}

	cart.RecomputeTotals()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, userID)
	return cart, nil
}

// RemoveItem removes the item with the given id. Removing an absent item
// is a no-op; removing the last item leaves an empty cart behind.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	cart.RecomputeTotals()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, userID)
	return cart, nil
}

// UpdateItemQuantity sets the item's quantity directly. Stock is not
// re-validated against the catalog here; see the known limitations note
// in DESIGN.md.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	item := cart.FindItem(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	item.Quantity = quantity

	cart.RecomputeTotals()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, userID)
	return cart, nil
}

// GetCart returns the user's cart with product details resolved from the
// catalog for each item.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.fetchCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, len(cart.Items))
	for i, item := range cart.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.catalog.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	// Resolve into a copy so the cached document stays bare
	resolved := *cart
	resolved.Items = make([]domain.CartItem, len(cart.Items))
	copy(resolved.Items, cart.Items)
	for i := range resolved.Items {
		resolved.Items[i].Product = products[resolved.Items[i].ProductID]
	}

	return &resolved, nil
}

func (s *CartService) fetchCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrCartNotFound) {
				return nil, ErrCartNotFound
			}
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), userID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// ClearCart deletes the cart document wholesale.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	err := s.repo.DeleteCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return ErrCartNotFound
		}
		log.Printf("repo delete cart error: %v \n", err)
		return err
	}

	invalidateCache(s, userID)
	return nil
}

// ApplyCoupon sets the cart's discount from a still-valid coupon. The
// discount persists on the cart until it is cleared or replaced, so later
// item mutations keep recomputing the discounted total.
func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (*domain.Cart, error) {
	c, err := s.coupons.FindValid(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, coupon.ErrCouponNotFound) {
			return nil, ErrInvalidCoupon
		}
		return nil, err
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	cart.Discount = c.Discount
	cart.RecomputeTotals()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, userID)
	return cart, nil
}

func invalidateCache(s *CartService, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
