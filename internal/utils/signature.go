package utils

import (
	"crypto/hmac"   // keyed hashing for the view-tracking cookie
	"crypto/sha256" // hash function behind the HMAC
	"encoding/hex"  // hex encoding of the digest
)

// SignValue returns the hex HMAC-SHA256 of value under secret.  It is used to
// sign the 24h view-dedup cookie so clients cannot forge "already viewed"
// markers for arbitrary brands.
func SignValue(secret, value string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyValue reports whether sig is a valid signature of value under secret.
func VerifyValue(secret, value, sig string) bool {
	expected := SignValue(secret, value)
	return hmac.Equal([]byte(expected), []byte(sig))
}
