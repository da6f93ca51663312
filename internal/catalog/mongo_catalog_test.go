package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/webstore/cart-service/internal/domain"
	"github.com/webstore/cart-service/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestCatalog(t *testing.T) (ProductCatalog, *mongo.Database, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := repository.ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewMongoCatalog(db), db, cleanup
}

func seedProducts(t *testing.T, db *mongo.Database, products ...domain.Product) {
	docs := make([]interface{}, len(products))
	for i, p := range products {
		docs[i] = p
	}
	_, err := db.Collection("products").InsertMany(context.Background(), docs)
	require.NoError(t, err)
}

func TestGetProduct_Success(t *testing.T) {
	cat, db, cleanup := setupTestCatalog(t)
	defer cleanup()

	seedProducts(t, db, domain.Product{ID: "prod-a", Title: "Product A", Price: 10, Stock: 5})

	product, err := cat.GetProduct(context.Background(), "prod-a")
	require.NoError(t, err)
	assert.Equal(t, "Product A", product.Title)
	assert.Equal(t, 10.0, product.Price)
	assert.Equal(t, 5, product.Stock)
}

func TestGetProduct_NotFound(t *testing.T) {
	cat, _, cleanup := setupTestCatalog(t)
	defer cleanup()

	product, err := cat.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}

func TestGetProducts_SkipsMissing(t *testing.T) {
	cat, db, cleanup := setupTestCatalog(t)
	defer cleanup()

	seedProducts(t, db,
		domain.Product{ID: "prod-a", Title: "Product A", Price: 10, Stock: 5},
		domain.Product{ID: "prod-b", Title: "Product B", Price: 3, Stock: 2},
	)

	products, err := cat.GetProducts(context.Background(), []string{"prod-a", "prod-b", "missing"})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Contains(t, products, "prod-a")
	assert.Contains(t, products, "prod-b")
	assert.NotContains(t, products, "missing")
}

func TestGetProducts_EmptyInput(t *testing.T) {
	cat, _, cleanup := setupTestCatalog(t)
	defer cleanup()

	products, err := cat.GetProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}
