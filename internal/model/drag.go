package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DragReply is an embedded answer to a drag comment.  Unlike post replies it
// carries no guest-name/anonymous fields: drag reply threads are
// brand-to-brand exchanges.
type DragReply struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Text        string              `bson:"text" json:"text"`
	AuthorBrand *primitive.ObjectID `bson:"author,omitempty" json:"author,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// DragComment is embedded in a drag in chronological (append) order, open to
// guests and authenticated brands alike.
type DragComment struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Text        string              `bson:"text" json:"text"`
	AuthorBrand *primitive.ObjectID `bson:"author,omitempty" json:"author,omitempty"`
	IsAnonymous bool                `bson:"isAnonymous" json:"isAnonymous"`
	GuestName   string              `bson:"guestName,omitempty" json:"guestName,omitempty"`
	Likes       []string            `bson:"likes" json:"likes"`
	Replies     []DragReply         `bson:"replies" json:"replies"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// Drag is a public callout authored by one brand against another.  Target
// resolution is best-effort: TargetBrand is set only when the mentioned name
// matched a registered brand, TargetBrandName always holds the literal text.
//
// Fields:
//
//	Author          – brand doing the dragging.
//	TargetBrand     – resolved target brand id, absent when no match.
//	TargetBrandName – literal mention text, the fallback identity.
//	Likes           – opaque viewer ids with toggle semantics.
//	Views           – feed impression counter.
type Drag struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Author          primitive.ObjectID  `bson:"author" json:"author"`
	TargetBrand     *primitive.ObjectID `bson:"targetBrand,omitempty" json:"targetBrand,omitempty"`
	TargetBrandName string              `bson:"targetBrandName" json:"targetBrandName"`
	Content         string              `bson:"content" json:"content"`
	Likes           []string            `bson:"likes" json:"likes"`
	Views           int64               `bson:"views" json:"views"`
	Comments        []DragComment       `bson:"comments" json:"comments"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}

// DragFeedItem is a drag with populated author/target cards plus the derived
// counts the trending sort ranks by.
type DragFeedItem struct {
	Drag          `bson:",inline"`
	AuthorCard    *BrandCard `bson:"authorCard,omitempty" json:"authorCard,omitempty"`
	TargetCard    *BrandCard `bson:"targetCard,omitempty" json:"targetCard,omitempty"`
	CommentsCount int        `bson:"commentsCount" json:"commentsCount"`
	LikesCount    int        `bson:"likesCount" json:"likesCount"`
}
