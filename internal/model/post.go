package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply is an embedded answer to a post comment.  Replies are appended in
// chronological order and immutable once created.
type Reply struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Text        string              `bson:"text" json:"text"`
	AuthorBrand *primitive.ObjectID `bson:"authorBrand,omitempty" json:"authorBrand,omitempty"`
	GuestName   string              `bson:"guestName,omitempty" json:"guestName,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// Comment is embedded in a post, newest-first.  When the commenter was
// authenticated AuthorBrand is set and IsAnonymous is false; otherwise the
// client-supplied guest name is stored verbatim.
type Comment struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Text        string              `bson:"text" json:"text"`
	AuthorBrand *primitive.ObjectID `bson:"authorBrand,omitempty" json:"authorBrand,omitempty"`
	IsAnonymous bool                `bson:"isAnonymous" json:"isAnonymous"`
	GuestName   string              `bson:"guestName,omitempty" json:"guestName,omitempty"`
	Replies     []Reply             `bson:"replies" json:"replies"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// Post is a social update published by a brand.  Comments are prepended
// (newest-first) while replies inside a comment are appended; both orderings
// are load-bearing for the feed UI.
//
// Fields:
//
//	Brand    – owning brand id.
//	Likes    – opaque viewer ids; presence means "liked" (toggle semantics).
//	IsHidden – owner-controlled visibility flag; hidden posts stay in the
//	           owner's listing but are excluded from public reads.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Brand     primitive.ObjectID `bson:"brand" json:"brand"`
	Content   string             `bson:"content" json:"content"`
	ImageURL  string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Likes     []string           `bson:"likes" json:"likes"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	IsHidden  bool               `bson:"isHidden" json:"isHidden"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
