package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/webstore/cart-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCatalog struct {
	collection *mongo.Collection
}

func (m mongoCatalog) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product

	filter := bson.M{"_id": productID}
	err := m.collection.FindOne(ctx, filter).Decode(&product)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// GetProducts fetches all given products in one query. Missing ids are
// simply absent from the result map.
func (m mongoCatalog) GetProducts(ctx context.Context, productIDs []string) (map[string]*domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]*domain.Product{}, nil
	}

	filter := bson.M{"_id": bson.M{"$in": productIDs}}
	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make(map[string]*domain.Product, len(productIDs))
	for cursor.Next(ctx) {
		var product domain.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		p := product
		products[p.ID] = &p
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}

	return products, nil
}

func NewMongoCatalog(db *mongo.Database) ProductCatalog {
	return &mongoCatalog{
		collection: db.Collection("products"),
	}
}
