package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a storefront listing owned by exactly one brand.  Purchases
// happen off-platform via WhatsApp redirect, so the document carries no
// order state, just presentation fields and a click counter.
//
// Fields:
//
//	Brand  – owning brand id; only that brand may mutate the product.
//	Price  – non-negative amount in naira.
//	Clicks – denormalized count of tracked WhatsApp redirects.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Brand       primitive.ObjectID `bson:"brand" json:"brand"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Images      []string           `bson:"images" json:"images"`
	Clicks      int64              `bson:"clicks" json:"clicks"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
