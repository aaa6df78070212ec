package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mybrand-ng/mybrand-api/internal/model"
)

// DragRepo wraps the drags collection.  Feed reads go through an aggregation
// pipeline that populates author/target cards and derives the comment/like
// counts the trending sort ranks by; nothing is cached.
type DragRepo struct{ Col *mongo.Collection }

func NewDragRepo(col *mongo.Collection) *DragRepo { return &DragRepo{Col: col} }

// Create inserts a drag and returns it with the generated id.
func (r *DragRepo) Create(ctx context.Context, d *model.Drag) (model.Drag, error) {
	res, err := r.Col.InsertOne(ctx, d)
	if err != nil {
		return model.Drag{}, err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return *d, nil
}

// GetByID fetches a drag by id.
func (r *DragRepo) GetByID(ctx context.Context, id primitive.ObjectID) (model.Drag, error) {
	var d model.Drag
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return d, ErrNotFound
	}
	return d, err
}

// feedPipeline builds the shared populate stages: brand cards for author and
// target plus derived comment/like counts.  match may be nil for the global
// feed.
func feedPipeline(match bson.M, sort bson.D, limit int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "brands",
			"localField":   "author",
			"foreignField": "_id",
			"as":           "authorCard",
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$project", Value: bson.M{"brandName": 1, "username": 1, "logoUrl": 1}}},
			},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "brands",
			"localField":   "targetBrand",
			"foreignField": "_id",
			"as":           "targetCard",
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$project", Value: bson.M{"brandName": 1, "username": 1, "logoUrl": 1}}},
			},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"authorCard":    bson.M{"$arrayElemAt": bson.A{"$authorCard", 0}},
			"targetCard":    bson.M{"$arrayElemAt": bson.A{"$targetCard", 0}},
			"commentsCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
			"likesCount":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
		}}},
		bson.D{{Key: "$sort", Value: sort}},
		bson.D{{Key: "$limit", Value: limit}},
	)
	return pipeline
}

func (r *DragRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]model.DragFeedItem, error) {
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []model.DragFeedItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Feed returns the global feed newest-first.
func (r *DragRepo) Feed(ctx context.Context, limit int64) ([]model.DragFeedItem, error) {
	sort := bson.D{{Key: "createdAt", Value: -1}}
	return r.aggregate(ctx, feedPipeline(nil, sort, limit))
}

// TrendingFeed ranks by comment count, then like count, then recency.  The
// ranking is computed at query time; fine at this volume, revisit if the
// collection grows past a few tens of thousands of drags.
func (r *DragRepo) TrendingFeed(ctx context.Context, limit int64) ([]model.DragFeedItem, error) {
	sort := bson.D{
		{Key: "commentsCount", Value: -1},
		{Key: "likesCount", Value: -1},
		{Key: "createdAt", Value: -1},
	}
	return r.aggregate(ctx, feedPipeline(nil, sort, limit))
}

// ListByTarget returns drags aimed at a brand (mentions-of-me), newest-first.
func (r *DragRepo) ListByTarget(ctx context.Context, targetID primitive.ObjectID, limit int64) ([]model.DragFeedItem, error) {
	sort := bson.D{{Key: "createdAt", Value: -1}}
	return r.aggregate(ctx, feedPipeline(bson.M{"targetBrand": targetID}, sort, limit))
}

// ListByAuthor returns drags a brand created, newest-first.
func (r *DragRepo) ListByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]model.DragFeedItem, error) {
	sort := bson.D{{Key: "createdAt", Value: -1}}
	return r.aggregate(ctx, feedPipeline(bson.M{"author": authorID}, sort, limit))
}

// AddLike inserts a viewer id into the like set.
func (r *DragRepo) AddLike(ctx context.Context, id primitive.ObjectID, viewerID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"likes": viewerID}})
	return err
}

// PullLike removes a viewer id from the like set.
func (r *DragRepo) PullLike(ctx context.Context, id primitive.ObjectID, viewerID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"likes": viewerID}})
	return err
}

// AppendComment appends a comment chronologically (drag comments are not
// prepended the way post comments are).
func (r *DragRepo) AppendComment(ctx context.Context, id primitive.ObjectID, comment model.DragComment) error {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the impression counter.
func (r *DragRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}
