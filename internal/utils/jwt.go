package utils // package utils provides helper functions for token creation and verification

import (
	"errors" // sentinel error for failed verification
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned when a token fails signature or expiry checks,
// or does not carry a usable brand id.
var ErrInvalidToken = errors.New("invalid token")

// AuthToken represents a signed JWT along with its expiry.  The Token field
// contains the JWT string.  Exp stores the expiration timestamp.  Tokens are
// carried in the x-auth-token header on protected endpoints; there is no
// refresh flow, clients simply log in again after expiry.
type AuthToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAuthToken builds and signs an HS256 JWT for a brand.  It takes the
// signing secret, the brand id (hex object id) and a TTL in days.  The JWT
// includes the subject (sub), expiration (exp) and issued at (iat) claims;
// the brand id is the only identity the platform encodes.
func NewAuthToken(secret, brandID string, ttlDays int) (AuthToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": brandID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AuthToken{}, err
	}
	return AuthToken{Token: signed, Exp: exp}, nil
}

// ParseAuthToken verifies the signature and expiry of a token and returns the
// brand id it carries.  Any failure collapses into ErrInvalidToken so callers
// cannot distinguish (and therefore cannot leak) the reason.
func ParseAuthToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
