package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mybrand-ng/mybrand-api/internal/media"
	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/queue"
	"github.com/mybrand-ng/mybrand-api/internal/realtime"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
)

// frequentPosterThreshold is the post count that earns the engagement badge.
const (
	frequentPosterThreshold = 5
	frequentPosterBadge     = "Frequent Poster"
	frequentPosterBonus     = 50
	postFeedLimit           = 50
)

// PostHandler covers the social feed: publishing, likes, comments and
// owner-controlled visibility.
type PostHandler struct {
	Posts  PostStore
	Brands BrandStore
	Media  media.Uploader
	Notify Notifier
}

func NewPostHandler(po PostStore, b BrandStore, m media.Uploader, n Notifier) *PostHandler {
	return &PostHandler{Posts: po, Brands: b, Media: m, Notify: n}
}

type postReq struct {
	Content string `json:"content" form:"content"`
}

type likeReq struct {
	ViewerID string `json:"viewerId"`
}

type commentReq struct {
	Text      string `json:"text"`
	GuestName string `json:"guestName"`
}

// ListByBrand returns a brand's posts newest-first.  Hidden posts show up
// only when the caller is the owning brand; the route runs under lax auth so
// anonymous readers still get the public slice.
func (h *PostHandler) ListByBrand(c echo.Context) error {
	brandID, ok := objectIDParam(c, "brandId")
	if !ok {
		return nil
	}

	includeHidden := false
	if caller, authed := callerID(c); authed && caller == brandID {
		includeHidden = true
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	posts, err := h.Posts.ListByBrand(ctx, brandID, includeHidden, postFeedLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, posts)
}

// Create publishes a post and runs the frequent-poster badge check.  The
// badge is awarded at most once, the first time the count reaches the
// threshold.
func (h *PostHandler) Create(c echo.Context) error {
	brandID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}

	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	imageURL := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		url, upErr := h.Media.Upload(ctx, fh)
		if upErr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
		}
		imageURL = url
	}

	post, err := h.Posts.Create(ctx, &model.Post{
		Brand:     brandID,
		Content:   req.Content,
		ImageURL:  imageURL,
		Likes:     []string{},
		Comments:  []model.Comment{},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	brand, berr := h.Brands.GetByID(ctx, brandID)
	if berr == nil {
		if count, cerr := h.Posts.CountByBrand(ctx, brandID); cerr == nil &&
			count >= frequentPosterThreshold && !brand.HasBadge(frequentPosterBadge) {
			_ = h.Brands.AwardBadge(ctx, brandID, model.Badge{
				Name:        frequentPosterBadge,
				DateAwarded: time.Now().UTC(),
			}, frequentPosterBonus)
		}
		_ = h.Notify.Notify(ctx, queue.EventNewPost,
			[]string{realtime.BrandRoom(brandID.Hex())},
			echo.Map{
				"brandName": brand.BrandName,
				"postId":    post.ID.Hex(),
				"timestamp": time.Now().UTC(),
			})
	}

	return c.JSON(http.StatusCreated, post)
}

// Update replaces the post content and image for the owning brand.
func (h *PostHandler) Update(c echo.Context) error {
	brandID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}
	postID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.Brand != brandID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not your post"})
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		content = existing.Content
	}
	imageURL := existing.ImageURL
	if fh, ferr := c.FormFile("image"); ferr == nil && fh != nil {
		url, upErr := h.Media.Upload(ctx, fh)
		if upErr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
		}
		imageURL = url
	}

	updated, err := h.Posts.UpdateContent(ctx, postID, content, imageURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete hard-deletes a post the caller owns.
func (h *PostHandler) Delete(c echo.Context) error {
	brandID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}
	postID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.Brand != brandID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not your post"})
	}

	if err := h.Posts.Delete(ctx, postID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}

// Like toggles the viewer's membership in the post's like set.  Liking an
// already-liked post removes the like, so two calls always cancel out.
func (h *PostHandler) Like(c echo.Context) error {
	postID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	var req likeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	viewerID := strings.TrimSpace(req.ViewerID)
	if viewerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "viewerId is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	liked := false
	for _, v := range post.Likes {
		if v == viewerID {
			liked = true
			break
		}
	}

	count := len(post.Likes)
	if liked {
		err = h.Posts.PullLike(ctx, postID, viewerID)
		count--
	} else {
		err = h.Posts.AddLike(ctx, postID, viewerID)
		count++
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "like failed"})
	}

	if !liked {
		_ = h.Notify.Notify(ctx, queue.EventPostLiked,
			[]string{realtime.BrandRoom(post.Brand.Hex())},
			echo.Map{"postId": postID.Hex(), "likes": count, "timestamp": time.Now().UTC()})
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": !liked, "likes": count})
}

// Comment prepends a comment so the newest sits first.  Authenticated
// callers are attributed to their brand; guests get the supplied name or
// "Anonymous".
func (h *PostHandler) Comment(c echo.Context) error {
	postID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	comment := model.Comment{
		ID:          primitive.NewObjectID(),
		Text:        req.Text,
		IsAnonymous: true,
		Replies:     []model.Reply{},
		CreatedAt:   time.Now().UTC(),
	}
	commenterName := strings.TrimSpace(req.GuestName)
	if commenterName == "" {
		commenterName = "Anonymous"
	}
	if caller, authed := callerID(c); authed {
		comment.AuthorBrand = &caller
		comment.IsAnonymous = false
		comment.GuestName = ""
		if brand, berr := h.Brands.GetByID(ctx, caller); berr == nil {
			commenterName = brand.BrandName
		}
	} else {
		comment.GuestName = commenterName
	}

	if err := h.Posts.PrependComment(ctx, postID, comment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "comment failed"})
	}

	_ = h.Notify.Notify(ctx, queue.EventNewComment,
		[]string{realtime.BrandRoom(post.Brand.Hex())},
		echo.Map{
			"postId":    postID.Hex(),
			"commenter": commenterName,
			"timestamp": time.Now().UTC(),
		})

	return c.JSON(http.StatusCreated, comment)
}

// Reply appends to a comment's reply thread, oldest-first.
func (h *PostHandler) Reply(c echo.Context) error {
	postID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	commentID, ok := objectIDParam(c, "commentId")
	if !ok {
		return nil
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	reply := model.Reply{
		ID:        primitive.NewObjectID(),
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}
	if caller, authed := callerID(c); authed {
		reply.AuthorBrand = &caller
	} else {
		reply.GuestName = strings.TrimSpace(req.GuestName)
		if reply.GuestName == "" {
			reply.GuestName = "Anonymous"
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Posts.AppendReply(ctx, postID, commentID, reply); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post or comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reply failed"})
	}
	return c.JSON(http.StatusCreated, reply)
}

// SetVisibility flips the owner-controlled hidden flag.
func (h *PostHandler) SetVisibility(c echo.Context) error {
	brandID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}
	postID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.Brand != brandID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not your post"})
	}

	hidden := !existing.IsHidden
	if err := h.Posts.SetHidden(ctx, postID, hidden); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"isHidden": hidden})
}
