package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/queue"
	"github.com/mybrand-ng/mybrand-api/internal/realtime"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
)

const (
	dragFeedLimit = 50

	// unknownBrandName is stored when the free-text mention matched nothing.
	unknownBrandName = "Unknown Brand"
)

// DragHandler runs the public accountability feed.
type DragHandler struct {
	Drags  DragStore
	Brands BrandStore
	Notify Notifier
}

func NewDragHandler(d DragStore, b BrandStore, n Notifier) *DragHandler {
	return &DragHandler{Drags: d, Brands: b, Notify: n}
}

type dragReq struct {
	TargetBrandName string `json:"targetBrandName"`
	Content         string `json:"content"`
}

type dragCommentReq struct {
	Text      string `json:"text"`
	GuestName string `json:"guestName"`
}

// Create publishes a drag.  The target mention resolves best-effort: a miss
// keeps the literal text and never fails the request.
func (h *DragHandler) Create(c echo.Context) error {
	authorID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}

	var req dragReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	drag := model.Drag{
		Author:          authorID,
		TargetBrandName: unknownBrandName,
		Content:         req.Content,
		Likes:           []string{},
		Comments:        []model.DragComment{},
		CreatedAt:       time.Now().UTC(),
	}

	mention := strings.TrimSpace(req.TargetBrandName)
	if mention != "" {
		drag.TargetBrandName = strings.TrimPrefix(mention, "@")
		if target, err := h.Brands.ResolveMention(ctx, mention); err == nil {
			drag.TargetBrand = &target.ID
			drag.TargetBrandName = target.BrandName
		}
	}

	created, err := h.Drags.Create(ctx, &drag)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	if created.TargetBrand != nil {
		authorName := ""
		if author, aerr := h.Brands.GetByID(ctx, authorID); aerr == nil {
			authorName = author.BrandName
		}
		_ = h.Notify.Notify(ctx, queue.EventNewDrag,
			[]string{realtime.BrandRoom(created.TargetBrand.Hex())},
			echo.Map{
				"dragId":    created.ID.Hex(),
				"author":    authorName,
				"timestamp": time.Now().UTC(),
			})
	}

	return c.JSON(http.StatusCreated, created)
}

// Feed returns the global drag feed.  ?sort=trending ranks by engagement;
// anything else is newest-first.
func (h *DragHandler) Feed(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		items []model.DragFeedItem
		err   error
	)
	if strings.EqualFold(c.QueryParam("sort"), "trending") {
		items, err = h.Drags.TrendingFeed(ctx, dragFeedLimit)
	} else {
		items, err = h.Drags.Feed(ctx, dragFeedLimit)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// ListByTarget returns drags aimed at a brand, newest-first.
func (h *DragHandler) ListByTarget(c echo.Context) error {
	brandID, ok := objectIDParam(c, "brandId")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Drags.ListByTarget(ctx, brandID, dragFeedLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// ListByAuthor returns drags a brand authored, newest-first.
func (h *DragHandler) ListByAuthor(c echo.Context) error {
	brandID, ok := objectIDParam(c, "brandId")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Drags.ListByAuthor(ctx, brandID, dragFeedLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Like toggles a viewer's like on a drag, same involution as post likes.
func (h *DragHandler) Like(c echo.Context) error {
	dragID, ok := objectIDParam(c, "id")
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

	drag, err := h.Drags.GetByID(ctx, dragID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "drag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	liked := false
	for _, v := range drag.Likes {
		if v == viewerID {
			liked = true
			break
		}
	}

	count := len(drag.Likes)
	if liked {
		err = h.Drags.PullLike(ctx, dragID, viewerID)
		count--
	} else {
		err = h.Drags.AddLike(ctx, dragID, viewerID)
		count++
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "like failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": !liked, "likes": count})
}

// Comment appends a drag comment in chronological order and notifies the
// author room plus, when the target resolved, the target room.
func (h *DragHandler) Comment(c echo.Context) error {
	dragID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	var req dragCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	drag, err := h.Drags.GetByID(ctx, dragID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "drag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	comment := model.DragComment{
		ID:          primitive.NewObjectID(),
		Text:        req.Text,
		IsAnonymous: true,
		Likes:       []string{},
		Replies:     []model.DragReply{},
		CreatedAt:   time.Now().UTC(),
	}
	commenterName := strings.TrimSpace(req.GuestName)
	if commenterName == "" {
		commenterName = "Guest"
	}
	if caller, authed := callerID(c); authed {
		comment.AuthorBrand = &caller
		comment.IsAnonymous = false
		if brand, berr := h.Brands.GetByID(ctx, caller); berr == nil {
			commenterName = brand.BrandName
		}
	}
	// The feed renders comments straight off the document, so the display
	// name is denormalized here for brand commenters too.
	comment.GuestName = commenterName

	if err := h.Drags.AppendComment(ctx, dragID, comment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "comment failed"})
	}

	rooms := []string{realtime.BrandRoom(drag.Author.Hex())}
	if drag.TargetBrand != nil {
		rooms = append(rooms, realtime.BrandRoom(drag.TargetBrand.Hex()))
	}
	_ = h.Notify.Notify(ctx, queue.EventDragComment, rooms,
		echo.Map{
			"dragId":    dragID.Hex(),
			"commenter": commenterName,
			"timestamp": time.Now().UTC(),
		})

	return c.JSON(http.StatusCreated, comment)
}
