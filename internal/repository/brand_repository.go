package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mybrand-ng/mybrand-api/internal/model"
)

// BrandRepo wraps the brands collection.
type BrandRepo struct{ Col *mongo.Collection }

func NewBrandRepo(col *mongo.Collection) *BrandRepo { return &BrandRepo{Col: col} }

// Create inserts a brand and returns its id.  Handle and email collisions are
// detected twice: an application-level pre-check (for a field-specific error)
// and the unique index as the authoritative guard under concurrency.
func (r *BrandRepo) Create(ctx context.Context, b *model.Brand) (primitive.ObjectID, error) {
	b.Username = strings.ToLower(strings.TrimSpace(b.Username))
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))

	var existing model.Brand
	err := r.Col.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": b.Username},
		bson.M{"email": b.Email},
	}}).Decode(&existing)
	if err == nil {
		if existing.Username == b.Username {
			return primitive.NilObjectID, ErrUsernameExists
		}
		return primitive.NilObjectID, ErrEmailExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, err
	}

	res, err := r.Col.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "username") {
				return primitive.NilObjectID, ErrUsernameExists
			}
			return primitive.NilObjectID, ErrEmailExists
		}
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// GetByID fetches a brand by object id.
func (r *BrandRepo) GetByID(ctx context.Context, id primitive.ObjectID) (model.Brand, error) {
	var b model.Brand
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return b, ErrNotFound
	}
	return b, err
}

// GetByEmail fetches a brand by normalized email.
func (r *BrandRepo) GetByEmail(ctx context.Context, email string) (model.Brand, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var b model.Brand
	err := r.Col.FindOne(ctx, bson.M{"email": email}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return b, ErrNotFound
	}
	return b, err
}

// GetByUsername fetches a brand by its handle.
func (r *BrandRepo) GetByUsername(ctx context.Context, username string) (model.Brand, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var b model.Brand
	err := r.Col.FindOne(ctx, bson.M{"username": username}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return b, ErrNotFound
	}
	return b, err
}

// SetFields applies a partial update ($set) to a brand document.  Callers
// build the field map; empty maps are a no-op.
func (r *BrandRepo) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	if len(fields) == 0 {
		return nil
	}
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Follow records follower -> target as two independent $addToSet writes, one
// per document.  There is no transaction: a crash between the writes leaves a
// one-sided edge that the next follow/unfollow resolves.
func (r *BrandRepo) Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if _, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$addToSet": bson.M{"following": targetID}},
	); err != nil {
		return err
	}
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": followerID}},
	)
	return err
}

// Unfollow removes both edges.  Pulling an absent id is a silent no-op, which
// is exactly the unfollow contract.
func (r *BrandRepo) Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if _, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$pull": bson.M{"following": targetID}},
	); err != nil {
		return err
	}
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": followerID}},
	)
	return err
}

// Search matches brands by display name or handle, case-insensitive, for the
// @-mention picker.  The query string is escaped before being used as a
// pattern so user input cannot inject regex syntax.
func (r *BrandRepo) Search(ctx context.Context, q string, limit int64) ([]model.BrandCard, error) {
	pattern := regexp.QuoteMeta(q)
	filter := bson.M{"$or": bson.A{
		bson.M{"brandName": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"username": bson.M{"$regex": pattern, "$options": "i"}},
	}}
	opts := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"brandName": 1, "username": 1, "logoUrl": 1})
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	cards := []model.BrandCard{}
	if err := cur.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ResolveMention finds the brand a free-text drag mention points at.  The
// leading '@' is stripped and the remainder matched case-insensitively
// against the handle or display name.  ErrNotFound means "no match", which
// callers treat as a valid outcome, not a failure.
func (r *BrandRepo) ResolveMention(ctx context.Context, mention string) (model.Brand, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(mention), "@"))
	var b model.Brand
	if clean == "" {
		return b, ErrNotFound
	}
	pattern := "^" + regexp.QuoteMeta(clean) + "$"
	err := r.Col.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": strings.ToLower(clean)},
		bson.M{"brandName": bson.M{"$regex": pattern, "$options": "i"}},
	}}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return b, ErrNotFound
	}
	return b, err
}

// CardsByIDs loads slim brand cards for the given ids, keyed by id.  Used to
// populate comment/drag author display data on public reads.
func (r *BrandRepo) CardsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.BrandCard, error) {
	out := map[primitive.ObjectID]model.BrandCard{}
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"brandName": 1, "username": 1, "logoUrl": 1})
	cur, err := r.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cards []model.BrandCard
	if err := cur.All(ctx, &cards); err != nil {
		return nil, err
	}
	for _, c := range cards {
		out[c.ID] = c
	}
	return out, nil
}

// IncrementViews bumps the profile view counter.
func (r *BrandRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// IncrementProductClicks bumps the brand-level click counter.
func (r *BrandRepo) IncrementProductClicks(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"productClicks": 1}})
	return err
}

// AwardBadge pushes a badge and credits the engagement bonus in one write.
// Callers must check badge absence first; this method does not deduplicate.
func (r *BrandRepo) AwardBadge(ctx context.Context, id primitive.ObjectID, badge model.Badge, bonus int) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"badges": badge},
		"$inc":  bson.M{"engagementScore": bonus},
	})
	return err
}

// ActivateSubscription flips the brand to Premium with a verified paid window.
func (r *BrandRepo) ActivateSubscription(ctx context.Context, id primitive.ObjectID, price int, start, end time.Time) error {
	return r.SetFields(ctx, id, bson.M{
		"tier":       model.TierPremium,
		"tierPrice":  price,
		"isVerified": true,
		"subscription": model.Subscription{
			Status:          model.SubscriptionActive,
			StartDate:       &start,
			EndDate:         &end,
			LastPaymentDate: &start,
		},
	})
}

// SetGem stores a purchased status gem and its expiry.
func (r *BrandRepo) SetGem(ctx context.Context, id primitive.ObjectID, gem string, expiry time.Time) error {
	return r.SetFields(ctx, id, bson.M{"statusGem": gem, "gemExpiry": expiry})
}
