package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mybrand-ng/mybrand-api/internal/model"
)

// ClickRepo wraps the productclicks collection, an append-only event log.
// Nothing here mutates or deletes; the only reads are analytics listings.
type ClickRepo struct{ Col *mongo.Collection }

func NewClickRepo(col *mongo.Collection) *ClickRepo { return &ClickRepo{Col: col} }

// Append records one immutable click event.
func (r *ClickRepo) Append(ctx context.Context, ev *model.ProductClick) error {
	_, err := r.Col.InsertOne(ctx, ev)
	return err
}

// ListByBrand returns a brand's click events, newest-first, for analytics
// listings.
func (r *ClickRepo) ListByBrand(ctx context.Context, brandID primitive.ObjectID, limit int64) ([]model.ProductClick, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cur, err := r.Col.Find(ctx, bson.M{"brand": brandID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []model.ProductClick{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
