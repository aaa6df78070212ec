// Package router maps the HTTP surface onto the handlers.  Routes split
// three ways: strict (valid token required), lax (token honored when present,
// anonymous otherwise) and open.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mybrand-ng/mybrand-api/internal/handler"
	"github.com/mybrand-ng/mybrand-api/internal/middleware"
)

// RegisterRoutes wires the unauthenticated infrastructure endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires signup, login and the token-introspection endpoint.
// rateLimit guards the credential endpoints against brute force; pass an
// identity middleware when Redis is absent.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rateLimit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, rateLimit)
	g.POST("/login", a.Login, rateLimit)
	g.GET("/me", a.Me, middleware.TokenAuth(jwtSecret))
}

// RegisterBrands wires profile, settings, paid features and the follow graph.
func RegisterBrands(e *echo.Echo, b *handler.BrandHandler, jwtSecret string) {
	g := e.Group("/api/brands")
	strict := middleware.TokenAuth(jwtSecret)

	g.GET("/search", b.Search)
	g.PUT("/settings", b.UpdateSettings, strict)
	g.PUT("/upgrade", b.Upgrade, strict)
	g.PUT("/gem", b.PurchaseGem, strict)
	g.POST("/follow/:id", b.Follow, strict)
	g.POST("/unfollow/:id", b.Unfollow, strict)
	// Registered last so the param routes cannot shadow the fixed paths above.
	g.GET("/:username", b.GetByUsername)
	// Legacy alias: profile updates always apply to the token's brand, the
	// path handle is ignored.
	g.PUT("/:username", b.UpdateSettings, strict)
}

// RegisterProducts wires the authenticated catalog CRUD.
func RegisterProducts(e *echo.Echo, p *handler.ProductHandler, jwtSecret string) {
	g := e.Group("/api/products")
	strict := middleware.TokenAuth(jwtSecret)

	g.GET("", p.List, strict)
	g.POST("", p.Create, strict)
	g.PUT("/:id", p.Update, strict)
	g.DELETE("/:id", p.Delete, strict)
}

// RegisterPosts wires the social feed.  Reads and guest interactions run
// lax; publishing and moderation run strict.
func RegisterPosts(e *echo.Echo, p *handler.PostHandler, jwtSecret string) {
	g := e.Group("/api/posts")
	strict := middleware.TokenAuth(jwtSecret)
	lax := middleware.LaxTokenAuth(jwtSecret)

	g.GET("/brand/:brandId", p.ListByBrand, lax)
	g.POST("", p.Create, strict)
	g.PUT("/:id", p.Update, strict)
	g.DELETE("/:id", p.Delete, strict)
	g.PUT("/:id/like", p.Like)
	g.POST("/:id/comment", p.Comment, lax)
	g.POST("/:id/comment/:commentId/reply", p.Reply, lax)
	g.PUT("/:id/visibility", p.SetVisibility, strict)
}

// RegisterDrags wires the accountability feed.
func RegisterDrags(e *echo.Echo, d *handler.DragHandler, jwtSecret string) {
	g := e.Group("/api/drags")
	strict := middleware.TokenAuth(jwtSecret)
	lax := middleware.LaxTokenAuth(jwtSecret)

	g.POST("", d.Create, strict)
	g.GET("", d.Feed)
	g.GET("/target/:brandId", d.ListByTarget)
	g.GET("/author/:brandId", d.ListByAuthor)
	g.PUT("/:id/like", d.Like)
	g.POST("/:id/comment", d.Comment, lax)
}

// RegisterPublic wires the storefront reads visitors hit via brand
// subdomains.  No auth of any kind.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, products *handler.ProductHandler) {
	g := e.Group("/api/public")
	g.GET("/:subdomain", p.Profile)
	g.GET("/:subdomain/products", p.ListProducts)
	g.GET("/:subdomain/posts", p.ListPosts)
	g.GET("/:subdomain/drags", p.ListDrags)

	// Brand-scoped product and post listings addressed by id rather than
	// subdomain, used by embedded widgets.
	e.GET("/api/products/brand/:brandId", products.ListPublic)
}

// RegisterAnalytics wires the engagement counters.  All open: the click
// tracker runs from anonymous storefront visitors.
func RegisterAnalytics(e *echo.Echo, a *handler.AnalyticsHandler) {
	g := e.Group("/api/analytics")
	g.POST("/product-click/:productId", a.ProductClick)
	g.POST("/brand/:id/view", a.BrandView)
	g.POST("/brand/:id/click", a.BrandClick)
}
