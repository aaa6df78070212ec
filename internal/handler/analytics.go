package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
)

// AnalyticsHandler records engagement counters.  Every write past the
// product-existence check is best-effort: a failed counter bump or click-log
// append never fails the request, the numbers just drift low.
type AnalyticsHandler struct {
	Brands   BrandStore
	Products ProductStore
	Clicks   ClickStore
}

func NewAnalyticsHandler(b BrandStore, pr ProductStore, cl ClickStore) *AnalyticsHandler {
	return &AnalyticsHandler{Brands: b, Products: pr, Clicks: cl}
}

// ProductClick tracks a WhatsApp redirect: bumps the product and brand
// counters independently, then appends an immutable click event with the
// caller's ip and user agent.
func (h *AnalyticsHandler) ProductClick(c echo.Context) error {
	productID, ok := objectIDParam(c, "productId")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	product, err := h.Products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	clicks := product.Clicks
	if n, incErr := h.Products.IncrementClicks(ctx, productID); incErr == nil {
		clicks = n
	}
	_ = h.Brands.IncrementProductClicks(ctx, product.Brand)

	_ = h.Clicks.Append(ctx, &model.ProductClick{
		Product:   productID,
		Brand:     product.Brand,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		CreatedAt: time.Now().UTC(),
	})

	return c.JSON(http.StatusOK, echo.Map{"clicks": clicks})
}

// BrandView is the legacy direct view counter bump.
func (h *AnalyticsHandler) BrandView(c echo.Context) error {
	brandID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Brands.IncrementViews(ctx, brandID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "view recorded"})
}

// BrandClick is the legacy direct product-click counter bump.
func (h *AnalyticsHandler) BrandClick(c echo.Context) error {
	brandID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Brands.IncrementProductClicks(ctx, brandID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "click recorded"})
}
