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

// PostRepo wraps the posts collection.
type PostRepo struct{ Col *mongo.Collection }

func NewPostRepo(col *mongo.Collection) *PostRepo { return &PostRepo{Col: col} }

// Create inserts a post and returns it with the generated id.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) (model.Post, error) {
	res, err := r.Col.InsertOne(ctx, p)
	if err != nil {
		return model.Post{}, err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return *p, nil
}

// GetByID fetches a post by id.
func (r *PostRepo) GetByID(ctx context.Context, id primitive.ObjectID) (model.Post, error) {
	var p model.Post
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, ErrNotFound
	}
	return p, err
}

// ListByBrand returns a brand's posts newest-first, capped at limit.  When
// includeHidden is false (public reads) hidden posts are filtered out; the
// owner's own listing passes true and sees everything.
func (r *PostRepo) ListByBrand(ctx context.Context, brandID primitive.ObjectID, includeHidden bool, limit int64) ([]model.Post, error) {
	filter := bson.M{"brand": brandID}
	if !includeHidden {
		filter["isHidden"] = bson.M{"$ne": true}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByBrand reports how many posts the brand has published, for the
// Frequent Poster badge check.
func (r *PostRepo) CountByBrand(ctx context.Context, brandID primitive.ObjectID) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"brand": brandID})
}

// UpdateContent replaces a post's text and image.
func (r *PostRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, content, imageURL string) (model.Post, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var p model.Post
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "imageUrl": imageURL}},
		opts,
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, ErrNotFound
	}
	return p, err
}

// Delete hard-deletes a post.
func (r *PostRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddLike inserts a viewer id into the like set ($addToSet keeps it unique).
func (r *PostRepo) AddLike(ctx context.Context, id primitive.ObjectID, viewerID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"likes": viewerID}})
	return err
}

// PullLike removes a viewer id from the like set.
func (r *PostRepo) PullLike(ctx context.Context, id primitive.ObjectID, viewerID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"likes": viewerID}})
	return err
}

// PrependComment pushes a comment at position 0 so listings read newest-first
// without sorting the embedded array.
func (r *PostRepo) PrependComment(ctx context.Context, id primitive.ObjectID, comment model.Comment) error {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"comments": bson.M{
			"$each":     bson.A{comment},
			"$position": 0,
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendReply appends a reply to the matched comment's reply list, keeping
// replies chronological while comments stay newest-first.
func (r *PostRepo) AppendReply(ctx context.Context, postID, commentID primitive.ObjectID, reply model.Reply) error {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{"$push": bson.M{"comments.$.replies": reply}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetHidden flips the owner-only visibility flag.
func (r *PostRepo) SetHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isHidden": hidden}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
