package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mybrand-ng/mybrand-api/internal/config"
	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
	"github.com/mybrand-ng/mybrand-api/internal/utils"
)

const viewCookieTTL = 24 * time.Hour

// PublicHandler serves the unauthenticated storefront reads keyed by the
// brand's subdomain (its username).
type PublicHandler struct {
	Cfg      config.Config
	Brands   BrandStore
	Products ProductStore
	Posts    PostStore
	Drags    DragStore
}

func NewPublicHandler(cfg config.Config, b BrandStore, pr ProductStore, po PostStore, d DragStore) *PublicHandler {
	return &PublicHandler{Cfg: cfg, Brands: b, Products: pr, Posts: po, Drags: d}
}

// publicBrand strips the fields a storefront visitor must not see.
func publicBrand(b model.Brand) model.Brand {
	b.Password = ""
	b.Email = ""
	return b
}

// viewCookieName scopes the dedup cookie to one brand.
func viewCookieName(id primitive.ObjectID) string {
	return "viewed_brand_" + id.Hex()
}

// Profile returns the public brand document and counts at most one view per
// browser per 24 hours.  The dedup marker is an HMAC-signed cookie, so a
// client cannot mint its own "already viewed" state for other brands.
func (h *PublicHandler) Profile(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	brand, err := h.Brands.GetByUsername(ctx, c.Param("subdomain"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	name := viewCookieName(brand.ID)
	seen := false
	if cookie, cerr := c.Cookie(name); cerr == nil {
		seen = utils.VerifyValue(h.Cfg.JWTSecret, brand.ID.Hex(), cookie.Value)
	}
	if !seen {
		if err := h.Brands.IncrementViews(ctx, brand.ID); err == nil {
			brand.Views++
		}
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    utils.SignValue(h.Cfg.JWTSecret, brand.ID.Hex()),
			Path:     "/",
			MaxAge:   int(viewCookieTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return c.JSON(http.StatusOK, publicBrand(brand))
}

// ListProducts lists the storefront catalog, newest-first.
func (h *PublicHandler) ListProducts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	brand, err := h.Brands.GetByUsername(ctx, c.Param("subdomain"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	products, err := h.Products.ListByBrand(ctx, brand.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, products)
}

// publicComment is a post comment with author display data resolved for
// anonymous readers.
type publicComment struct {
	model.Comment
	AuthorName string `json:"authorName,omitempty"`
	AuthorLogo string `json:"authorLogo,omitempty"`
}

type publicPost struct {
	model.Post
	Comments []publicComment `json:"comments"`
}

// ListPosts lists visible posts newest-first with commenter brand names and
// logos joined in, so the storefront renders attribution without extra
// round-trips.
func (h *PublicHandler) ListPosts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	brand, err := h.Brands.GetByUsername(ctx, c.Param("subdomain"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	posts, err := h.Posts.ListByBrand(ctx, brand.ID, false, postFeedLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var authorIDs []primitive.ObjectID
	seen := map[primitive.ObjectID]struct{}{}
	for _, p := range posts {
		for _, cm := range p.Comments {
			if cm.AuthorBrand == nil {
				continue
			}
			if _, dup := seen[*cm.AuthorBrand]; dup {
				continue
			}
			seen[*cm.AuthorBrand] = struct{}{}
			authorIDs = append(authorIDs, *cm.AuthorBrand)
		}
	}

	cards := map[primitive.ObjectID]model.BrandCard{}
	if len(authorIDs) > 0 {
		if resolved, cerr := h.Brands.CardsByIDs(ctx, authorIDs); cerr == nil {
			cards = resolved
		}
	}

	out := make([]publicPost, 0, len(posts))
	for _, p := range posts {
		pp := publicPost{Post: p, Comments: make([]publicComment, 0, len(p.Comments))}
		for _, cm := range p.Comments {
			pc := publicComment{Comment: cm}
			if cm.AuthorBrand != nil {
				if card, okc := cards[*cm.AuthorBrand]; okc {
					pc.AuthorName = card.BrandName
					pc.AuthorLogo = card.LogoURL
				}
			}
			pp.Comments = append(pp.Comments, pc)
		}
		out = append(out, pp)
	}
	return c.JSON(http.StatusOK, out)
}

// ListDrags lists the drags the brand authored, newest-first.
func (h *PublicHandler) ListDrags(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	brand, err := h.Brands.GetByUsername(ctx, c.Param("subdomain"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items, err := h.Drags.ListByAuthor(ctx, brand.ID, dragFeedLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}
