// Package handler implements the HTTP surface.  Each handler struct bundles
// the stores and adapters it needs behind small interfaces so the Mongo
// repositories plug in at wiring time and tests substitute mocks.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mybrand-ng/mybrand-api/internal/middleware"
	"github.com/mybrand-ng/mybrand-api/internal/model"
)

// BrandStore is the brands collection as the handlers see it.
type BrandStore interface {
	Create(ctx context.Context, b *model.Brand) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (model.Brand, error)
	GetByEmail(ctx context.Context, email string) (model.Brand, error)
	GetByUsername(ctx context.Context, username string) (model.Brand, error)
	SetFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error
	Search(ctx context.Context, q string, limit int64) ([]model.BrandCard, error)
	ResolveMention(ctx context.Context, mention string) (model.Brand, error)
	CardsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.BrandCard, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	IncrementProductClicks(ctx context.Context, id primitive.ObjectID) error
	AwardBadge(ctx context.Context, id primitive.ObjectID, badge model.Badge, bonus int) error
	ActivateSubscription(ctx context.Context, id primitive.ObjectID, price int, start, end time.Time) error
	SetGem(ctx context.Context, id primitive.ObjectID, gem string, expiry time.Time) error
}

// ProductStore is the products collection as the handlers see it.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) (model.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (model.Product, error)
	ListByBrand(ctx context.Context, brandID primitive.ObjectID) ([]model.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, name, description string, price float64, images []string) (model.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementClicks(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// PostStore is the posts collection as the handlers see it.
type PostStore interface {
	Create(ctx context.Context, p *model.Post) (model.Post, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (model.Post, error)
	ListByBrand(ctx context.Context, brandID primitive.ObjectID, includeHidden bool, limit int64) ([]model.Post, error)
	CountByBrand(ctx context.Context, brandID primitive.ObjectID) (int64, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content, imageURL string) (model.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, id primitive.ObjectID, viewerID string) error
	PullLike(ctx context.Context, id primitive.ObjectID, viewerID string) error
	PrependComment(ctx context.Context, id primitive.ObjectID, comment model.Comment) error
	AppendReply(ctx context.Context, postID, commentID primitive.ObjectID, reply model.Reply) error
	SetHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error
}

// DragStore is the drags collection as the handlers see it.
type DragStore interface {
	Create(ctx context.Context, d *model.Drag) (model.Drag, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (model.Drag, error)
	Feed(ctx context.Context, limit int64) ([]model.DragFeedItem, error)
	TrendingFeed(ctx context.Context, limit int64) ([]model.DragFeedItem, error)
	ListByTarget(ctx context.Context, targetID primitive.ObjectID, limit int64) ([]model.DragFeedItem, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]model.DragFeedItem, error)
	AddLike(ctx context.Context, id primitive.ObjectID, viewerID string) error
	PullLike(ctx context.Context, id primitive.ObjectID, viewerID string) error
	AppendComment(ctx context.Context, id primitive.ObjectID, comment model.DragComment) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
}

// ClickStore is the append-only product click log.
type ClickStore interface {
	Append(ctx context.Context, ev *model.ProductClick) error
	ListByBrand(ctx context.Context, brandID primitive.ObjectID, limit int64) ([]model.ProductClick, error)
}

// Notifier publishes fire-and-forget realtime events.  Handlers always
// discard its error: delivery is advisory.
type Notifier interface {
	Notify(ctx context.Context, event string, rooms []string, data interface{}) error
}

// reqCtx bounds persistence work to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// paymentCtx allows the slower gateway round-trip a bigger budget than
// persistence calls get.
func paymentCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 10*time.Second)
}

// callerID returns the authenticated brand's object id, or ok=false for
// anonymous callers (lax routes) and malformed tokens.
func callerID(c echo.Context) (primitive.ObjectID, bool) {
	hex, ok := middleware.BrandID(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// objectIDParam parses a path parameter as an object id, replying 400 itself
// on malformed input.  The bool is false when the response was already sent.
func objectIDParam(c echo.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
