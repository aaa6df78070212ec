package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tier names a brand's subscription level.  Premium unlocks cover image
// sliders and status gems.
const (
	TierFree    = "Free"
	TierPremium = "Premium"
)

// Subscription statuses stored on the brand document.
const (
	SubscriptionNone     = "None"
	SubscriptionActive   = "Active"
	SubscriptionInactive = "Inactive"
	SubscriptionExpired  = "Expired"
)

// Status gem levels, Premium-only cosmetics shown next to the brand name.
const (
	GemNone    = "None"
	GemBronze  = "Bronze"
	GemSilver  = "Silver"
	GemGold    = "Gold"
	GemDiamond = "Diamond"
)

// Subscription records the paid window attached to a Premium brand.
//
// Fields:
//
//	Status          – None, Active, Inactive or Expired.
//	StartDate       – beginning of the paid window.
//	EndDate         – end of the paid window.
//	LastPaymentDate – timestamp of the most recent verified payment.
type Subscription struct {
	Status          string     `bson:"status" json:"status"`
	StartDate       *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate         *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	LastPaymentDate *time.Time `bson:"lastPaymentDate,omitempty" json:"lastPaymentDate,omitempty"`
}

// CACDetails carries the registration-authority details supplied at signup.
type CACDetails struct {
	Registered bool   `bson:"registered" json:"registered"`
	RegNumber  string `bson:"regNumber" json:"regNumber"`
}

// Badge is an earned reputation marker (e.g. Frequent Poster).
type Badge struct {
	Name        string    `bson:"name" json:"name"`
	Icon        string    `bson:"icon" json:"icon"`
	DateAwarded time.Time `bson:"dateAwarded" json:"dateAwarded"`
}

// Brand is the tenant aggregate root.  Every product, post, drag and click
// record carries a reference back to exactly one brand.  This struct
// corresponds to a document in the `brands` collection.
//
// Fields:
//
//	Username        – unique subdomain-like handle, lowercased.
//	Email           – unique login email, lowercased.
//	Password        – bcrypt credential hash, never serialized to JSON.
//	BrandName       – public display name.
//	FullName        – owner's full name.
//	CoverImages     – up to 5 slider banners, honored only on Premium.
//	Tier            – Free or Premium.
//	StatusGem       – Premium-only cosmetic with its own expiry.
//	Followers       – brand ids following this brand (never contains own id).
//	Following       – brand ids this brand follows (never contains own id).
//	Views           – public profile view counter (24h-deduplicated).
//	ProductClicks   – denormalized total of product click events.
type Brand struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username        string               `bson:"username" json:"username"`
	Email           string               `bson:"email" json:"email,omitempty"`
	Password        string               `bson:"password" json:"-"`
	BrandName       string               `bson:"brandName" json:"brandName"`
	FullName        string               `bson:"fullName" json:"fullName"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	LogoURL         string               `bson:"logoUrl" json:"logoUrl"`
	CoverURL        string               `bson:"coverUrl" json:"coverUrl"`
	CoverImages     []string             `bson:"coverImages" json:"coverImages"`
	ThemeColor      string               `bson:"themeColor" json:"themeColor"`
	Tier            string               `bson:"tier" json:"tier"`
	Subscription    Subscription         `bson:"subscription" json:"subscription"`
	TierPrice       int                  `bson:"tierPrice" json:"tierPrice"`
	IsVerified      bool                 `bson:"isVerified" json:"isVerified"`
	StatusGem       string               `bson:"statusGem" json:"statusGem"`
	GemExpiry       *time.Time           `bson:"gemExpiry,omitempty" json:"gemExpiry,omitempty"`
	CACDetails      CACDetails           `bson:"cacDetails" json:"cacDetails"`
	EngagementScore int                  `bson:"engagementScore" json:"engagementScore"`
	Badges          []Badge              `bson:"badges" json:"badges"`
	Followers       []primitive.ObjectID `bson:"followers" json:"followers"`
	Following       []primitive.ObjectID `bson:"following" json:"following"`
	Views           int64                `bson:"views" json:"views"`
	ProductClicks   int64                `bson:"productClicks" json:"productClicks"`
	WhatsappNumber  string               `bson:"whatsappNumber" json:"whatsappNumber"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
}

// HasBadge reports whether the brand already earned the named badge.
func (b *Brand) HasBadge(name string) bool {
	for _, bd := range b.Badges {
		if bd.Name == name {
			return true
		}
	}
	return false
}

// IsFollowing reports whether id is present in the brand's following set.
func (b *Brand) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range b.Following {
		if f == id {
			return true
		}
	}
	return false
}

// BrandCard is the slim projection used for search results and populated
// author/target references on posts and drags.
type BrandCard struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	BrandName string             `bson:"brandName" json:"brandName"`
	LogoURL   string             `bson:"logoUrl" json:"logoUrl"`
}
