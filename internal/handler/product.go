package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mybrand-ng/mybrand-api/internal/media"
	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/queue"
	"github.com/mybrand-ng/mybrand-api/internal/realtime"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
)

// ProductHandler owns the authenticated product CRUD surface.
type ProductHandler struct {
	Products ProductStore
	Brands   BrandStore
	Media    media.Uploader
	Notify   Notifier
}

func NewProductHandler(pr ProductStore, b BrandStore, m media.Uploader, n Notifier) *ProductHandler {
	return &ProductHandler{Products: pr, Brands: b, Media: m, Notify: n}
}

type productReq struct {
	Name        string  `json:"name" form:"name"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price"`
}

// List returns the caller's own products, newest-first.
func (h *ProductHandler) List(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.ListByBrand(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, products)
}

// ListPublic returns any brand's products by id, newest-first.  Open route
// used by storefront widgets.
func (h *ProductHandler) ListPublic(c echo.Context) error {
	brandID, ok := objectIDParam(c, "brandId")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.ListByBrand(ctx, brandID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, products)
}

// Create adds a product and fans out a new_product event to the brand's
// follower room.
func (h *ProductHandler) Create(c echo.Context) error {
	brandID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}

	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	images := []string{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["images"] {
			url, upErr := h.Media.Upload(ctx, fh)
			if upErr != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
			}
			images = append(images, url)
		}
	}

	product, err := h.Products.Create(ctx, &model.Product{
		Brand:       brandID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Images:      images,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	if brand, err := h.Brands.GetByID(ctx, brandID); err == nil {
		_ = h.Notify.Notify(ctx, queue.EventNewProduct,
			[]string{realtime.BrandRoom(brandID.Hex())},
			echo.Map{
				"brandName":   brand.BrandName,
				"productId":   product.ID.Hex(),
				"productName": product.Name,
				"timestamp":   time.Now().UTC(),
			})
	}

	return c.JSON(http.StatusCreated, product)
}

// Update replaces the mutable fields of a product the caller owns.
func (h *ProductHandler) Update(c echo.Context) error {
	brandID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.Brand != brandID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not your product"})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = existing.Name
	}

	images := existing.Images
	if form, err := c.MultipartForm(); err == nil && form != nil && len(form.File["images"]) > 0 {
		images = []string{}
		for _, fh := range form.File["images"] {
			url, upErr := h.Media.Upload(ctx, fh)
			if upErr != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
			}
			images = append(images, url)
		}
	}

	updated, err := h.Products.Update(ctx, productID, name, strings.TrimSpace(req.Description), req.Price, images)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a product the caller owns.
func (h *ProductHandler) Delete(c echo.Context) error {
	brandID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
	}
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.Brand != brandID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not your product"})
	}

	if err := h.Products.Delete(ctx, productID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}
