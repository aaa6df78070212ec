package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mybrand-ng/mybrand-api/internal/model"
)

// ProductRepo wraps the products collection.
type ProductRepo struct{ Col *mongo.Collection }

func NewProductRepo(col *mongo.Collection) *ProductRepo { return &ProductRepo{Col: col} }

// Create inserts a product and returns it with the generated id.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (model.Product, error) {
	res, err := r.Col.InsertOne(ctx, p)
	if err != nil {
		return model.Product{}, err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return *p, nil
}

// GetByID fetches a product by id.
func (r *ProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (model.Product, error) {
	var p model.Product
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, ErrNotFound
	}
	return p, err
}

// ListByBrand returns a brand's products, newest-first.
func (r *ProductRepo) ListByBrand(ctx context.Context, brandID primitive.ObjectID) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"brand": brandID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update replaces the mutable fields of a product.  Ownership is checked by
// the handler before this is called.
func (r *ProductRepo) Update(ctx context.Context, id primitive.ObjectID, name, description string, price float64, images []string) (model.Product, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var p model.Product
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":        name,
			"description": description,
			"price":       price,
			"images":      images,
		}},
		opts,
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, ErrNotFound
	}
	return p, err
}

// Delete removes a product document.
func (r *ProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementClicks bumps the product-level click counter and returns the new
// value.
func (r *ProductRepo) IncrementClicks(ctx context.Context, id primitive.ObjectID) (int64, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var p model.Product
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"clicks": 1}},
		opts,
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrNotFound
	}
	return p.Clicks, err
}
