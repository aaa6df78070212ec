package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductClick is an immutable analytics event appended when a visitor hits
// the WhatsApp redirect for a product.  Records are never mutated or deleted;
// the denormalized counters on Product and Brand exist only to keep the read
// path cheap.
type ProductClick struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Product   primitive.ObjectID `bson:"product" json:"product"`
	Brand     primitive.ObjectID `bson:"brand" json:"brand"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string             `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
