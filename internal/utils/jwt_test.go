package utils

import (
	"errors"
	"testing"
	"time"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	tok, err := NewAuthToken("secret", "64a000000000000000000001", 7)
	if err != nil {
		t.Fatalf("NewAuthToken: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token string")
	}
	if until := time.Until(tok.Exp); until < 6*24*time.Hour || until > 8*24*time.Hour {
		t.Errorf("expiry %v not ~7 days out", tok.Exp)
	}

	sub, err := ParseAuthToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAuthToken: %v", err)
	}
	if sub != "64a000000000000000000001" {
		t.Errorf("sub = %q", sub)
	}
}

func TestParseAuthTokenWrongSecret(t *testing.T) {
	tok, err := NewAuthToken("secret", "64a000000000000000000001", 7)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAuthToken("other", tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseAuthTokenExpired(t *testing.T) {
	tok, err := NewAuthToken("secret", "64a000000000000000000001", -1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAuthToken("secret", tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken for expired token", err)
	}
}

func TestParseAuthTokenGarbage(t *testing.T) {
	if _, err := ParseAuthToken("secret", "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("password not hashed")
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}
