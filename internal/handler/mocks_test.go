package handler

import (
	"context"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mybrand-ng/mybrand-api/internal/middleware"
	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
)

// Mock stores use optional func fields; a nil field falls back to a harmless
// default so each test only stubs what it exercises.

type mockBrandStore struct {
	CreateFn               func(ctx context.Context, b *model.Brand) (primitive.ObjectID, error)
	GetByIDFn              func(ctx context.Context, id primitive.ObjectID) (model.Brand, error)
	GetByEmailFn           func(ctx context.Context, email string) (model.Brand, error)
	GetByUsernameFn        func(ctx context.Context, username string) (model.Brand, error)
	SetFieldsFn            func(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	FollowFn               func(ctx context.Context, followerID, targetID primitive.ObjectID) error
	UnfollowFn             func(ctx context.Context, followerID, targetID primitive.ObjectID) error
	SearchFn               func(ctx context.Context, q string, limit int64) ([]model.BrandCard, error)
	ResolveMentionFn       func(ctx context.Context, mention string) (model.Brand, error)
	CardsByIDsFn           func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.BrandCard, error)
	IncrementViewsFn       func(ctx context.Context, id primitive.ObjectID) error
	IncrementProductClicksFn func(ctx context.Context, id primitive.ObjectID) error
	AwardBadgeFn           func(ctx context.Context, id primitive.ObjectID, badge model.Badge, bonus int) error
	ActivateSubscriptionFn func(ctx context.Context, id primitive.ObjectID, price int, start, end time.Time) error
	SetGemFn               func(ctx context.Context, id primitive.ObjectID, gem string, expiry time.Time) error
}

func (m *mockBrandStore) Create(ctx context.Context, b *model.Brand) (primitive.ObjectID, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return primitive.NewObjectID(), nil
}

func (m *mockBrandStore) GetByID(ctx context.Context, id primitive.ObjectID) (model.Brand, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return model.Brand{}, repository.ErrNotFound
}

func (m *mockBrandStore) GetByEmail(ctx context.Context, email string) (model.Brand, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return model.Brand{}, repository.ErrNotFound
}

func (m *mockBrandStore) GetByUsername(ctx context.Context, username string) (model.Brand, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return model.Brand{}, repository.ErrNotFound
}

func (m *mockBrandStore) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	if m.SetFieldsFn != nil {
		return m.SetFieldsFn(ctx, id, fields)
	}
	return nil
}

func (m *mockBrandStore) Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if m.FollowFn != nil {
		return m.FollowFn(ctx, followerID, targetID)
	}
	return nil
}

func (m *mockBrandStore) Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if m.UnfollowFn != nil {
		return m.UnfollowFn(ctx, followerID, targetID)
	}
	return nil
}

func (m *mockBrandStore) Search(ctx context.Context, q string, limit int64) ([]model.BrandCard, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, q, limit)
	}
	return nil, nil
}

func (m *mockBrandStore) ResolveMention(ctx context.Context, mention string) (model.Brand, error) {
	if m.ResolveMentionFn != nil {
		return m.ResolveMentionFn(ctx, mention)
	}
	return model.Brand{}, repository.ErrNotFound
}

func (m *mockBrandStore) CardsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.BrandCard, error) {
	if m.CardsByIDsFn != nil {
		return m.CardsByIDsFn(ctx, ids)
	}
	return map[primitive.ObjectID]model.BrandCard{}, nil
}

func (m *mockBrandStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	if m.IncrementViewsFn != nil {
		return m.IncrementViewsFn(ctx, id)
	}
	return nil
}

func (m *mockBrandStore) IncrementProductClicks(ctx context.Context, id primitive.ObjectID) error {
	if m.IncrementProductClicksFn != nil {
		return m.IncrementProductClicksFn(ctx, id)
	}
	return nil
}

func (m *mockBrandStore) AwardBadge(ctx context.Context, id primitive.ObjectID, badge model.Badge, bonus int) error {
	if m.AwardBadgeFn != nil {
		return m.AwardBadgeFn(ctx, id, badge, bonus)
	}
	return nil
}

func (m *mockBrandStore) ActivateSubscription(ctx context.Context, id primitive.ObjectID, price int, start, end time.Time) error {
	if m.ActivateSubscriptionFn != nil {
		return m.ActivateSubscriptionFn(ctx, id, price, start, end)
	}
	return nil
}

func (m *mockBrandStore) SetGem(ctx context.Context, id primitive.ObjectID, gem string, expiry time.Time) error {
	if m.SetGemFn != nil {
		return m.SetGemFn(ctx, id, gem, expiry)
	}
	return nil
}

type mockProductStore struct {
	CreateFn          func(ctx context.Context, p *model.Product) (model.Product, error)
	GetByIDFn         func(ctx context.Context, id primitive.ObjectID) (model.Product, error)
	ListByBrandFn     func(ctx context.Context, brandID primitive.ObjectID) ([]model.Product, error)
	UpdateFn          func(ctx context.Context, id primitive.ObjectID, name, description string, price float64, images []string) (model.Product, error)
	DeleteFn          func(ctx context.Context, id primitive.ObjectID) error
	IncrementClicksFn func(ctx context.Context, id primitive.ObjectID) (int64, error)
}

func (m *mockProductStore) Create(ctx context.Context, p *model.Product) (model.Product, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	p.ID = primitive.NewObjectID()
	return *p, nil
}

func (m *mockProductStore) GetByID(ctx context.Context, id primitive.ObjectID) (model.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return model.Product{}, repository.ErrNotFound
}

func (m *mockProductStore) ListByBrand(ctx context.Context, brandID primitive.ObjectID) ([]model.Product, error) {
	if m.ListByBrandFn != nil {
		return m.ListByBrandFn(ctx, brandID)
	}
	return nil, nil
}

func (m *mockProductStore) Update(ctx context.Context, id primitive.ObjectID, name, description string, price float64, images []string) (model.Product, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, name, description, price, images)
	}
	return model.Product{}, repository.ErrNotFound
}

func (m *mockProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockProductStore) IncrementClicks(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if m.IncrementClicksFn != nil {
		return m.IncrementClicksFn(ctx, id)
	}
	return 0, nil
}

type mockPostStore struct {
	CreateFn         func(ctx context.Context, p *model.Post) (model.Post, error)
	GetByIDFn        func(ctx context.Context, id primitive.ObjectID) (model.Post, error)
	ListByBrandFn    func(ctx context.Context, brandID primitive.ObjectID, includeHidden bool, limit int64) ([]model.Post, error)
	CountByBrandFn   func(ctx context.Context, brandID primitive.ObjectID) (int64, error)
	UpdateContentFn  func(ctx context.Context, id primitive.ObjectID, content, imageURL string) (model.Post, error)
	DeleteFn         func(ctx context.Context, id primitive.ObjectID) error
	AddLikeFn        func(ctx context.Context, id primitive.ObjectID, viewerID string) error
	PullLikeFn       func(ctx context.Context, id primitive.ObjectID, viewerID string) error
	PrependCommentFn func(ctx context.Context, id primitive.ObjectID, comment model.Comment) error
	AppendReplyFn    func(ctx context.Context, postID, commentID primitive.ObjectID, reply model.Reply) error
	SetHiddenFn      func(ctx context.Context, id primitive.ObjectID, hidden bool) error
}

func (m *mockPostStore) Create(ctx context.Context, p *model.Post) (model.Post, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	p.ID = primitive.NewObjectID()
	return *p, nil
}

func (m *mockPostStore) GetByID(ctx context.Context, id primitive.ObjectID) (model.Post, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return model.Post{}, repository.ErrNotFound
}

func (m *mockPostStore) ListByBrand(ctx context.Context, brandID primitive.ObjectID, includeHidden bool, limit int64) ([]model.Post, error) {
	if m.ListByBrandFn != nil {
		return m.ListByBrandFn(ctx, brandID, includeHidden, limit)
	}
	return nil, nil
}

func (m *mockPostStore) CountByBrand(ctx context.Context, brandID primitive.ObjectID) (int64, error) {
	if m.CountByBrandFn != nil {
		return m.CountByBrandFn(ctx, brandID)
	}
	return 0, nil
}

func (m *mockPostStore) UpdateContent(ctx context.Context, id primitive.ObjectID, content, imageURL string) (model.Post, error) {
	if m.UpdateContentFn != nil {
		return m.UpdateContentFn(ctx, id, content, imageURL)
	}
	return model.Post{}, repository.ErrNotFound
}

func (m *mockPostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockPostStore) AddLike(ctx context.Context, id primitive.ObjectID, viewerID string) error {
	if m.AddLikeFn != nil {
		return m.AddLikeFn(ctx, id, viewerID)
	}
	return nil
}

func (m *mockPostStore) PullLike(ctx context.Context, id primitive.ObjectID, viewerID string) error {
	if m.PullLikeFn != nil {
		return m.PullLikeFn(ctx, id, viewerID)
	}
	return nil
}

func (m *mockPostStore) PrependComment(ctx context.Context, id primitive.ObjectID, comment model.Comment) error {
	if m.PrependCommentFn != nil {
		return m.PrependCommentFn(ctx, id, comment)
	}
	return nil
}

func (m *mockPostStore) AppendReply(ctx context.Context, postID, commentID primitive.ObjectID, reply model.Reply) error {
	if m.AppendReplyFn != nil {
		return m.AppendReplyFn(ctx, postID, commentID, reply)
	}
	return nil
}

func (m *mockPostStore) SetHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error {
	if m.SetHiddenFn != nil {
		return m.SetHiddenFn(ctx, id, hidden)
	}
	return nil
}

type mockDragStore struct {
	CreateFn         func(ctx context.Context, d *model.Drag) (model.Drag, error)
	GetByIDFn        func(ctx context.Context, id primitive.ObjectID) (model.Drag, error)
	FeedFn           func(ctx context.Context, limit int64) ([]model.DragFeedItem, error)
	TrendingFeedFn   func(ctx context.Context, limit int64) ([]model.DragFeedItem, error)
	ListByTargetFn   func(ctx context.Context, targetID primitive.ObjectID, limit int64) ([]model.DragFeedItem, error)
	ListByAuthorFn   func(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]model.DragFeedItem, error)
	AddLikeFn        func(ctx context.Context, id primitive.ObjectID, viewerID string) error
	PullLikeFn       func(ctx context.Context, id primitive.ObjectID, viewerID string) error
	AppendCommentFn  func(ctx context.Context, id primitive.ObjectID, comment model.DragComment) error
	IncrementViewsFn func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockDragStore) Create(ctx context.Context, d *model.Drag) (model.Drag, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	d.ID = primitive.NewObjectID()
	return *d, nil
}

func (m *mockDragStore) GetByID(ctx context.Context, id primitive.ObjectID) (model.Drag, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return model.Drag{}, repository.ErrNotFound
}

func (m *mockDragStore) Feed(ctx context.Context, limit int64) ([]model.DragFeedItem, error) {
	if m.FeedFn != nil {
		return m.FeedFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockDragStore) TrendingFeed(ctx context.Context, limit int64) ([]model.DragFeedItem, error) {
	if m.TrendingFeedFn != nil {
		return m.TrendingFeedFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockDragStore) ListByTarget(ctx context.Context, targetID primitive.ObjectID, limit int64) ([]model.DragFeedItem, error) {
	if m.ListByTargetFn != nil {
		return m.ListByTargetFn(ctx, targetID, limit)
	}
	return nil, nil
}

func (m *mockDragStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]model.DragFeedItem, error) {
	if m.ListByAuthorFn != nil {
		return m.ListByAuthorFn(ctx, authorID, limit)
	}
	return nil, nil
}

func (m *mockDragStore) AddLike(ctx context.Context, id primitive.ObjectID, viewerID string) error {
	if m.AddLikeFn != nil {
		return m.AddLikeFn(ctx, id, viewerID)
	}
	return nil
}

func (m *mockDragStore) PullLike(ctx context.Context, id primitive.ObjectID, viewerID string) error {
	if m.PullLikeFn != nil {
		return m.PullLikeFn(ctx, id, viewerID)
	}
	return nil
}

func (m *mockDragStore) AppendComment(ctx context.Context, id primitive.ObjectID, comment model.DragComment) error {
	if m.AppendCommentFn != nil {
		return m.AppendCommentFn(ctx, id, comment)
	}
	return nil
}

func (m *mockDragStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	if m.IncrementViewsFn != nil {
		return m.IncrementViewsFn(ctx, id)
	}
	return nil
}

type mockClickStore struct {
	AppendFn      func(ctx context.Context, ev *model.ProductClick) error
	ListByBrandFn func(ctx context.Context, brandID primitive.ObjectID, limit int64) ([]model.ProductClick, error)
}

func (m *mockClickStore) Append(ctx context.Context, ev *model.ProductClick) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, ev)
	}
	return nil
}

func (m *mockClickStore) ListByBrand(ctx context.Context, brandID primitive.ObjectID, limit int64) ([]model.ProductClick, error) {
	if m.ListByBrandFn != nil {
		return m.ListByBrandFn(ctx, brandID, limit)
	}
	return nil, nil
}

// mockNotifier records every published event for assertions.
type mockNotifier struct {
	Events []string
	Rooms  [][]string
}

func (m *mockNotifier) Notify(ctx context.Context, event string, rooms []string, data interface{}) error {
	m.Events = append(m.Events, event)
	m.Rooms = append(m.Rooms, rooms)
	return nil
}

// mockVerifier approves or rejects every transaction wholesale.
type mockVerifier struct {
	Err   error
	Calls int
}

func (m *mockVerifier) Verify(ctx context.Context, transactionID string, expectedAmount int) error {
	m.Calls++
	return m.Err
}

// mockUploader never runs in JSON-body tests but satisfies the interface.
type mockUploader struct {
	URL string
	Err error
}

func (m *mockUploader) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	return m.URL, m.Err
}

// newJSONContext builds an Echo context around a JSON request and recorder.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asBrand marks the context as authenticated.
func asBrand(c echo.Context, id primitive.ObjectID) {
	c.Set(middleware.ContextBrandID, id.Hex())
}
