package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/mybrand-ng/mybrand-api/internal/utils" // token parsing helpers
)

// HeaderAuthToken is the custom request header carrying the signed token.
// Clients send the raw JWT here, not an Authorization: Bearer header.
const HeaderAuthToken = "x-auth-token"

// ContextBrandID is the Echo context key under which the authenticated brand
// id (hex object id string) is stored.  Handlers read it via c.Get(); a nil
// value means the caller is anonymous.
const ContextBrandID = "brand_id"

// TokenAuth returns the strict auth middleware.  It validates the x-auth-token
// header and injects the brand id into the request context.  Requests with a
// missing, malformed or expired token are rejected with 401 before the
// handler runs.  Wrap owner-only routes with this.
func TokenAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderAuthToken)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no token, authorization denied"})
			}
			brandID, err := utils.ParseAuthToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is not valid"})
			}
			c.Set(ContextBrandID, brandID)
			return next(c)
		}
	}
}

// LaxTokenAuth returns the lax variant used by guest-or-authenticated routes
// (comments, likes, owner-aware listings).  The same verification runs, but a
// missing or invalid token simply leaves the context unset and the request
// proceeds anonymously.  Handlers decide what anonymity means per operation.
func LaxTokenAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderAuthToken)
			if raw == "" {
				return next(c)
			}
			brandID, err := utils.ParseAuthToken(secret, raw)
			if err != nil {
				// Invalid token is treated the same as no token.
				return next(c)
			}
			c.Set(ContextBrandID, brandID)
			return next(c)
		}
	}
}

// BrandID extracts the authenticated brand id from the context.  The second
// return is false for anonymous callers.
func BrandID(c echo.Context) (string, bool) {
	v := c.Get(ContextBrandID)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
