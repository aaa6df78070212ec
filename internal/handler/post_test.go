package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/queue"
)

func TestPostLike_TogglesOnRepeat(t *testing.T) {
	postID := primitive.NewObjectID()
	brandID := primitive.NewObjectID()
	likes := []string{}
	posts := &mockPostStore{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (model.Post, error) {
			cp := make([]string, len(likes))
			copy(cp, likes)
			return model.Post{ID: postID, Brand: brandID, Likes: cp}, nil
		},
		AddLikeFn: func(ctx context.Context, id primitive.ObjectID, viewerID string) error {
			likes = append(likes, viewerID)
			return nil
		},
		PullLikeFn: func(ctx context.Context, id primitive.ObjectID, viewerID string) error {
			out := likes[:0]
			for _, v := range likes {
				if v != viewerID {
					out = append(out, v)
				}
			}
			likes = out
			return nil
		},
	}
	notifier := &mockNotifier{}
	h := NewPostHandler(posts, &mockBrandStore{}, &mockUploader{}, notifier)

	like := func() (bool, int) {
		c, rec := newJSONContext(http.MethodPut, "/api/posts/x/like", `{"viewerId":"device-1"}`)
		c.SetParamNames("id")
		c.SetParamValues(postID.Hex())
		_ = h.Like(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Liked bool `json:"liked"`
			Likes int  `json:"likes"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		return resp.Liked, resp.Likes
	}

	liked, count := like()
	if !liked || count != 1 {
		t.Fatalf("first like: liked=%v count=%d, want true/1", liked, count)
	}
	liked, count = like()
	if liked || count != 0 {
		t.Fatalf("second like: liked=%v count=%d, want false/0", liked, count)
	}
	if len(likes) != 0 {
		t.Errorf("like set = %v, want empty after two toggles", likes)
	}
	if len(notifier.Events) != 1 || notifier.Events[0] != queue.EventPostLiked {
		t.Errorf("events = %v, want exactly one post_liked for the add only", notifier.Events)
	}
}

func TestPostComment_GuestDefaultsToAnonymous(t *testing.T) {
	postID := primitive.NewObjectID()
	var stored model.Comment
	posts := &mockPostStore{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (model.Post, error) {
			return model.Post{ID: postID, Brand: primitive.NewObjectID()}, nil
		},
		PrependCommentFn: func(ctx context.Context, id primitive.ObjectID, comment model.Comment) error {
			stored = comment
			return nil
		},
	}
	h := NewPostHandler(posts, &mockBrandStore{}, &mockUploader{}, &mockNotifier{})

	c, rec := newJSONContext(http.MethodPost, "/api/posts/x/comment", `{"text":"love this"}`)
	c.SetParamNames("id")
	c.SetParamValues(postID.Hex())
	_ = h.Comment(c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if !stored.IsAnonymous {
		t.Error("guest comment must be anonymous")
	}
	if stored.GuestName != "Anonymous" {
		t.Errorf("guestName = %q, want Anonymous", stored.GuestName)
	}
	if stored.AuthorBrand != nil {
		t.Error("guest comment must not carry an author brand")
	}
}

func TestPostComment_AuthenticatedAttribution(t *testing.T) {
	postID := primitive.NewObjectID()
	callerID := primitive.NewObjectID()
	var stored model.Comment
	posts := &mockPostStore{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (model.Post, error) {
			return model.Post{ID: postID, Brand: primitive.NewObjectID()}, nil
		},
		PrependCommentFn: func(ctx context.Context, id primitive.ObjectID, comment model.Comment) error {
			stored = comment
			return nil
		},
	}
	brands := &mockBrandStore{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (model.Brand, error) {
			return model.Brand{ID: id, BrandName: "Acme Wears"}, nil
		},
	}
	h := NewPostHandler(posts, brands, &mockUploader{}, &mockNotifier{})

	c, rec := newJSONContext(http.MethodPost, "/api/posts/x/comment", `{"text":"nice","guestName":"ignored"}`)
	c.SetParamNames("id")
	c.SetParamValues(postID.Hex())
	asBrand(c, callerID)
	_ = h.Comment(c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if stored.IsAnonymous {
		t.Error("authenticated comment must not be anonymous")
	}
	if stored.AuthorBrand == nil || *stored.AuthorBrand != callerID {
		t.Error("authenticated comment must carry the caller's brand id")
	}
	if stored.GuestName != "" {
		t.Errorf("guestName = %q, want empty for authenticated commenter", stored.GuestName)
	}
}

func TestPostList_HiddenOnlyForOwner(t *testing.T) {
	brandID := primitive.NewObjectID()
	var sawIncludeHidden []bool
	posts := &mockPostStore{
		ListByBrandFn: func(ctx context.Context, id primitive.ObjectID, includeHidden bool, limit int64) ([]model.Post, error) {
			sawIncludeHidden = append(sawIncludeHidden, includeHidden)
			return []model.Post{}, nil
		},
	}
	h := NewPostHandler(posts, &mockBrandStore{}, &mockUploader{}, &mockNotifier{})

	// Anonymous read.
	c, _ := newJSONContext(http.MethodGet, "/api/posts/brand/x", "")
	c.SetParamNames("brandId")
	c.SetParamValues(brandID.Hex())
	_ = h.ListByBrand(c)

	// Some other authenticated brand.
	c, _ = newJSONContext(http.MethodGet, "/api/posts/brand/x", "")
	c.SetParamNames("brandId")
	c.SetParamValues(brandID.Hex())
	asBrand(c, primitive.NewObjectID())
	_ = h.ListByBrand(c)

	// The owner.
	c, _ = newJSONContext(http.MethodGet, "/api/posts/brand/x", "")
	c.SetParamNames("brandId")
	c.SetParamValues(brandID.Hex())
	asBrand(c, brandID)
	_ = h.ListByBrand(c)

	want := []bool{false, false, true}
	for i, got := range sawIncludeHidden {
		if got != want[i] {
			t.Errorf("call %d includeHidden = %v, want %v", i, got, want[i])
		}
	}
}

func TestPostCreate_AwardsFrequentPosterOnce(t *testing.T) {
	brandID := primitive.NewObjectID()
	awarded := 0
	hasBadge := false
	brands := &mockBrandStore{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (model.Brand, error) {
			b := model.Brand{ID: id, BrandName: "Acme Wears"}
			if hasBadge {
				b.Badges = []model.Badge{{Name: frequentPosterBadge}}
			}
			return b, nil
		},
		AwardBadgeFn: func(ctx context.Context, id primitive.ObjectID, badge model.Badge, bonus int) error {
			awarded++
			hasBadge = true
			if badge.Name != frequentPosterBadge {
				t.Errorf("badge name = %q", badge.Name)
			}
			if bonus != frequentPosterBonus {
				t.Errorf("bonus = %d, want %d", bonus, frequentPosterBonus)
			}
			return nil
		},
	}
	count := int64(4)
	posts := &mockPostStore{
		CreateFn: func(ctx context.Context, p *model.Post) (model.Post, error) {
			count++
			p.ID = primitive.NewObjectID()
			return *p, nil
		},
		CountByBrandFn: func(ctx context.Context, id primitive.ObjectID) (int64, error) {
			return count, nil
		},
	}
	h := NewPostHandler(posts, brands, &mockUploader{}, &mockNotifier{})

	publish := func() {
		c, rec := newJSONContext(http.MethodPost, "/api/posts", `{"content":"update"}`)
		asBrand(c, brandID)
		_ = h.Create(c)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
		}
	}

	publish() // fifth post, threshold reached
	if awarded != 1 {
		t.Fatalf("awards after fifth post = %d, want 1", awarded)
	}
	publish() // sixth post, badge already held
	if awarded != 1 {
		t.Errorf("awards after sixth post = %d, badge must be granted once", awarded)
	}
}

func TestPostVisibility_OwnershipEnforced(t *testing.T) {
	postID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	posts := &mockPostStore{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (model.Post, error) {
			return model.Post{ID: postID, Brand: ownerID}, nil
		},
	}
	h := NewPostHandler(posts, &mockBrandStore{}, &mockUploader{}, &mockNotifier{})

	c, rec := newJSONContext(http.MethodPut, "/api/posts/x/visibility", "")
	c.SetParamNames("id")
	c.SetParamValues(postID.Hex())
	asBrand(c, primitive.NewObjectID())
	_ = h.SetVisibility(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for non-owner", rec.Code)
	}

	c, rec = newJSONContext(http.MethodPut, "/api/posts/x/visibility", "")
	c.SetParamNames("id")
	c.SetParamValues(postID.Hex())
	asBrand(c, ownerID)
	_ = h.SetVisibility(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for owner", rec.Code)
	}
}

func TestPostVisibility_TogglesOnRepeat(t *testing.T) {
	postID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	hidden := false
	posts := &mockPostStore{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (model.Post, error) {
			return model.Post{ID: postID, Brand: ownerID, IsHidden: hidden}, nil
		},
		SetHiddenFn: func(ctx context.Context, id primitive.ObjectID, h bool) error {
			hidden = h
			return nil
		},
	}
	h := NewPostHandler(posts, &mockBrandStore{}, &mockUploader{}, &mockNotifier{})

	toggle := func() bool {
		c, rec := newJSONContext(http.MethodPut, "/api/posts/x/visibility", "")
		c.SetParamNames("id")
		c.SetParamValues(postID.Hex())
		asBrand(c, ownerID)
		_ = h.SetVisibility(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			IsHidden bool `json:"isHidden"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.IsHidden
	}

	if got := toggle(); !got || !hidden {
		t.Fatalf("first toggle: resp=%v stored=%v, want both hidden", got, hidden)
	}
	if got := toggle(); got || hidden {
		t.Fatalf("second toggle: resp=%v stored=%v, want both visible again", got, hidden)
	}
}
