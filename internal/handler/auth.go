package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mybrand-ng/mybrand-api/internal/config"
	"github.com/mybrand-ng/mybrand-api/internal/media"
	"github.com/mybrand-ng/mybrand-api/internal/model"
	"github.com/mybrand-ng/mybrand-api/internal/payment"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
	"github.com/mybrand-ng/mybrand-api/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and /me.
type AuthHandler struct {
	Cfg      config.Config
	Brands   BrandStore
	Payments payment.Verifier
	Media    media.Uploader
}

func NewAuthHandler(cfg config.Config, b BrandStore, v payment.Verifier, m media.Uploader) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Brands: b, Payments: v, Media: m}
}

// ----- DTOs -----

type registerReq struct {
	Username       string `json:"username" form:"username"`
	Email          string `json:"email" form:"email"`
	Password       string `json:"password" form:"password"`
	BrandName      string `json:"brandName" form:"brandName"`
	FullName       string `json:"fullName" form:"fullName"`
	WhatsappNumber string `json:"whatsappNumber" form:"whatsappNumber"`
	Tier           string `json:"tier" form:"tier"`
	CACRegistered  bool   `json:"cacRegistered" form:"cacRegistered"`
	CACNumber      string `json:"cacNumber" form:"cacNumber"`
	TransactionID  string `json:"transactionId" form:"transactionId"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type brandPart struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	BrandName string `json:"brandName"`
}

type authResp struct {
	Token string    `json:"token"`
	Brand brandPart `json:"brand"`
}

// Register creates a brand and returns a token immediately.  Premium signups
// must present a transaction id that verifies against the gateway for at
// least the monthly premium price before anything is persisted; a failed
// verification leaves no partial state behind.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" ||
		strings.TrimSpace(req.BrandName) == "" || strings.TrimSpace(req.FullName) == "" ||
		strings.TrimSpace(req.WhatsappNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email, password, brandName, fullName and whatsappNumber are required"})
	}

	tier := model.TierFree
	if strings.EqualFold(req.Tier, model.TierPremium) {
		tier = model.TierPremium
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// Fail early on duplicates so a premium signup is not charged-then-rejected.
	if _, err := h.Brands.GetByUsername(ctx, req.Username); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Brands.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now().UTC()
	brand := model.Brand{
		Username:       req.Username,
		Email:          req.Email,
		BrandName:      strings.TrimSpace(req.BrandName),
		FullName:       strings.TrimSpace(req.FullName),
		WhatsappNumber: strings.TrimSpace(req.WhatsappNumber),
		ThemeColor:     "#000000",
		Tier:           model.TierFree,
		Subscription:   model.Subscription{Status: model.SubscriptionNone},
		StatusGem:      model.GemNone,
		CACDetails:     model.CACDetails{Registered: req.CACRegistered, RegNumber: req.CACNumber},
		CoverImages:    []string{},
		Badges:         []model.Badge{},
		Followers:      []primitive.ObjectID{},
		Following:      []primitive.ObjectID{},
		CreatedAt:      now,
	}

	if tier == model.TierPremium {
		if strings.TrimSpace(req.TransactionID) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "transactionId is required for premium registration"})
		}
		// Signup verification only checks the monthly floor; the window
		// granted is always 30 days regardless of overpayment.
		price, _ := payment.PriceFor(payment.FeaturePremium, payment.BillingMonthly)
		payCtx, payCancel := paymentCtx(c)
		defer payCancel()
		if err := h.Payments.Verify(payCtx, req.TransactionID, price); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment verification failed"})
		}
		brand.Tier = model.TierPremium
		brand.TierPrice = price
		brand.IsVerified = true
		end := payment.ExpiryFrom(now, payment.BillingMonthly)
		brand.Subscription = model.Subscription{
			Status:          model.SubscriptionActive,
			StartDate:       &now,
			EndDate:         &end,
			LastPaymentDate: &now,
		}
	}

	// Optional logo part on multipart signups.
	if fh, err := c.FormFile("logo"); err == nil && fh != nil {
		url, upErr := h.Media.Upload(ctx, fh)
		if upErr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logo upload failed"})
		}
		brand.LogoURL = url
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create brand failed"})
	}
	brand.Password = hash

	id, err := h.Brands.Create(ctx, &brand)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create brand failed"})
	}

	token, err := utils.NewAuthToken(h.Cfg.JWTSecret, id.Hex(), h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Token: token.Token,
		Brand: brandPart{ID: id.Hex(), Username: brand.Username, BrandName: brand.BrandName},
	})
}

// Login verifies the credential and issues a fresh 7-day token.  Unknown
// email and wrong password produce the same generic error on purpose.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	brand, err := h.Brands.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(brand.Password, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.NewAuthToken(h.Cfg.JWTSecret, brand.ID.Hex(), h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Token: token.Token,
		Brand: brandPart{ID: brand.ID.Hex(), Username: brand.Username, BrandName: brand.BrandName},
	})
}

// Me returns the authenticated brand without the credential hash.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
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
	return c.JSON(http.StatusOK, echo.Map{"brand": brand})
}
