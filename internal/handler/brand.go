package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mybrand-ng/mybrand-api/internal/config"
	"github.com/mybrand-ng/mybrand-api/internal/media"
	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/payment"
	"github.com/mybrand-ng/mybrand-api/internal/queue"
	"github.com/mybrand-ng/mybrand-api/internal/realtime"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
)

// maxCoverImages caps the Premium slider banner set.
const maxCoverImages = 5

// BrandHandler bundles dependencies for brand profile, settings, paid
// features and the follow graph.
type BrandHandler struct {
	Cfg      config.Config
	Brands   BrandStore
	Products ProductStore
	Posts    PostStore
	Payments payment.Verifier
	Media    media.Uploader
	Notify   Notifier
}

func NewBrandHandler(cfg config.Config, b BrandStore, pr ProductStore, po PostStore, v payment.Verifier, m media.Uploader, n Notifier) *BrandHandler {
	return &BrandHandler{Cfg: cfg, Brands: b, Products: pr, Posts: po, Payments: v, Media: m, Notify: n}
}

// ----- DTOs -----

type settingsReq struct {
	ThemeColor     string `json:"themeColor" form:"themeColor"`
	Description    string `json:"description" form:"description"`
	BrandName      string `json:"brandName" form:"brandName"`
	FullName       string `json:"fullName" form:"fullName"`
	WhatsappNumber string `json:"whatsappNumber" form:"whatsappNumber"`
}

type upgradeReq struct {
	TransactionID string `json:"transactionId"`
	Billing       string `json:"billing"`
}

type gemReq struct {
	Gem           string `json:"gem"`
	Billing       string `json:"billing"`
	TransactionID string `json:"transactionId"`
}

// GetByUsername returns a brand's dashboard view: the document plus its
// products and posts, newest-first.
func (h *BrandHandler) GetByUsername(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	brand, err := h.Brands.GetByUsername(ctx, c.Param("username"))
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
	posts, err := h.Posts.ListByBrand(ctx, brand.ID, true, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"brand": brand, "products": products, "posts": posts})
}

// UpdateSettings applies a partial update of the customizable profile fields
// plus any uploaded media.  Cover images are only honored on Premium.
func (h *BrandHandler) UpdateSettings(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}

	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	brand, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	fields := bson.M{}
	if v := strings.TrimSpace(req.ThemeColor); v != "" {
		fields["themeColor"] = v
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		fields["description"] = v
	}
	if v := strings.TrimSpace(req.BrandName); v != "" {
		fields["brandName"] = v
	}
	if v := strings.TrimSpace(req.FullName); v != "" {
		fields["fullName"] = v
	}
	if v := strings.TrimSpace(req.WhatsappNumber); v != "" {
		fields["whatsappNumber"] = v
	}

	if fh, err := c.FormFile("logo"); err == nil && fh != nil {
		url, upErr := h.Media.Upload(ctx, fh)
		if upErr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logo upload failed"})
		}
		fields["logoUrl"] = url
	}
	if fh, err := c.FormFile("cover"); err == nil && fh != nil {
		url, upErr := h.Media.Upload(ctx, fh)
		if upErr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cover upload failed"})
		}
		fields["coverUrl"] = url
	}

	// Cover image sliders are a Premium feature; uploads from Free brands are
	// ignored rather than rejected so shared dashboard code keeps working.
	if form, err := c.MultipartForm(); err == nil && form != nil {
		covers := form.File["coverImages"]
		if len(covers) > 0 && brand.Tier == model.TierPremium {
			if len(covers) > maxCoverImages {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "at most 5 cover images allowed"})
			}
			urls := make([]string, 0, len(covers))
			for _, fh := range covers {
				url, upErr := h.Media.Upload(ctx, fh)
				if upErr != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cover image upload failed"})
				}
				urls = append(urls, url)
			}
			fields["coverImages"] = urls
		}
	}

	if err := h.Brands.SetFields(ctx, id, fields); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Upgrade verifies a premium subscription payment and activates the paid
// window.  Nothing mutates when verification fails.
func (h *BrandHandler) Upgrade(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}

	var req upgradeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transactionId is required"})
	}
	billing := normalizeBilling(req.Billing)

	price, err := payment.PriceFor(payment.FeaturePremium, billing)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid billing period"})
	}

	payCtx, payCancel := paymentCtx(c)
	defer payCancel()
	if err := h.Payments.Verify(payCtx, req.TransactionID, price); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment verification failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := time.Now().UTC()
	if err := h.Brands.ActivateSubscription(ctx, id, price, now, payment.ExpiryFrom(now, billing)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upgrade failed"})
	}

	updated, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// PurchaseGem verifies and applies a status gem.  Free brands are rejected
// before any gateway call is made.
func (h *BrandHandler) PurchaseGem(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}

	var req gemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transactionId is required"})
	}
	var gem string
	switch strings.ToLower(strings.TrimSpace(req.Gem)) {
	case "bronze":
		gem = model.GemBronze
	case "silver":
		gem = model.GemSilver
	case "gold":
		gem = model.GemGold
	case "diamond":
		gem = model.GemDiamond
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gem"})
	}
	billing := normalizeBilling(req.Billing)

	ctx, cancel := reqCtx(c)
	defer cancel()

	brand, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if brand.Tier != model.TierPremium {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "status gems are a premium feature"})
	}

	price, err := payment.PriceFor(payment.GemFeature(gem), billing)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid billing period"})
	}

	payCtx, payCancel := paymentCtx(c)
	defer payCancel()
	if err := h.Payments.Verify(payCtx, req.TransactionID, price); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment verification failed"})
	}

	now := time.Now().UTC()
	if err := h.Brands.SetGem(ctx, id, gem, payment.ExpiryFrom(now, billing)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "gem purchase failed"})
	}

	updated, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Follow adds the caller to the target's follower set and vice versa.
// Following twice is a conflict; following yourself is rejected outright.
func (h *BrandHandler) Follow(c echo.Context) error {
	callerOID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}
	targetOID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	if callerOID == targetOID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot follow yourself"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, err := h.Brands.GetByID(ctx, callerOID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if caller.IsFollowing(targetOID) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already following"})
	}
	if _, err := h.Brands.GetByID(ctx, targetOID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Brands.Follow(ctx, callerOID, targetOID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "follow failed"})
	}

	_ = h.Notify.Notify(ctx, queue.EventFollowerAdded,
		[]string{realtime.BrandRoom(targetOID.Hex())},
		echo.Map{"followerName": caller.BrandName, "timestamp": time.Now().UTC()})

	return c.JSON(http.StatusOK, echo.Map{"message": "now following"})
}

// Unfollow removes both edges.  Unfollowing a brand the caller never
// followed succeeds silently with no state change.
func (h *BrandHandler) Unfollow(c echo.Context) error {
	callerOID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}
	targetOID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Brands.Unfollow(ctx, callerOID, targetOID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unfollow failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unfollowed"})
}

// Search powers the @-mention picker.  Queries under two characters return
// an empty list instead of scanning the collection.
func (h *BrandHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if len(q) < 2 {
		return c.JSON(http.StatusOK, []model.BrandCard{})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cards, err := h.Brands.Search(ctx, q, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, cards)
}

func normalizeBilling(billing string) string {
	if strings.EqualFold(strings.TrimSpace(billing), payment.BillingYearly) {
		return payment.BillingYearly
	}
	return payment.BillingMonthly
}
