package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Open connects to MongoDB and verifies the connection.
func Open(uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMaxConnIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Ping with timeout so a dead server fails startup instead of the first request.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client, nil
}

// Collections bundles handles to every collection the service touches so the
// wiring in main stays in one place.
type Collections struct {
	Brands        *mongo.Collection
	Products      *mongo.Collection
	Posts         *mongo.Collection
	Drags         *mongo.Collection
	ProductClicks *mongo.Collection
}

// NewCollections resolves the named database and returns its collection handles.
func NewCollections(client *mongo.Client, dbName string) Collections {
	db := client.Database(dbName)
	return Collections{
		Brands:        db.Collection("brands"),
		Products:      db.Collection("products"),
		Posts:         db.Collection("posts"),
		Drags:         db.Collection("drags"),
		ProductClicks: db.Collection("productclicks"),
	}
}

// EnsureIndexes creates the unique indexes registration depends on.  Handle and
// email uniqueness is enforced here rather than by application-level checks alone.
func EnsureIndexes(ctx context.Context, c Collections) error {
	unique := options.Index().SetUnique(true)
	_, err := c.Brands.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	return err
}
