package catalog

import (
	"context"
	"errors"

	"github.com/webstore/cart-service/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// ProductCatalog provides read access to the product collaborator's data.
// The cart service only needs current price and stock.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	GetProducts(ctx context.Context, productIDs []string) (map[string]*domain.Product, error)
}
