package coupon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/webstore/cart-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRegistry struct {
	collection *mongo.Collection
}

// FindValid matches code and expiry in one query, so an expired coupon is
// indistinguishable from a missing one.
func (m mongoRegistry) FindValid(ctx context.Context, code string, now time.Time) (*domain.Coupon, error) {
	var coupon domain.Coupon

	filter := bson.M{
		"code":   code,
		"expire": bson.M{"$gte": now},
	}
	err := m.collection.FindOne(ctx, filter).Decode(&coupon)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

func (m *mongoRegistry) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func NewMongoRegistry(db *mongo.Database) CouponRegistry {
	return &mongoRegistry{
		collection: db.Collection("coupons"),
	}
}
