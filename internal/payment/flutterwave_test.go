package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// gatewayStub serves a canned verify payload and records the auth header.
func gatewayStub(t *testing.T, status int, payload string, gotAuth *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(status)
		fmt.Fprint(w, payload)
	}))
}

func stubClient(srv *httptest.Server, key string) *Client {
	c := NewClient(key)
	c.baseURL = srv.URL
	return c
}

func TestVerify_Success(t *testing.T) {
	var auth string
	srv := gatewayStub(t, http.StatusOK,
		`{"status":"success","data":{"status":"successful","amount":2000,"currency":"NGN"}}`, &auth)
	defer srv.Close()

	c := stubClient(srv, "sk_test")
	if err := c.Verify(context.Background(), "tx-1", 2000); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if auth != "Bearer sk_test" {
		t.Errorf("auth header = %q", auth)
	}
}

func TestVerify_OverpaymentAccepted(t *testing.T) {
	var auth string
	srv := gatewayStub(t, http.StatusOK,
		`{"status":"success","data":{"status":"successful","amount":19200,"currency":"NGN"}}`, &auth)
	defer srv.Close()

	if err := stubClient(srv, "sk").Verify(context.Background(), "tx-1", 2000); err != nil {
		t.Fatalf("overpayment must verify: %v", err)
	}
}

func TestVerify_Shortfall(t *testing.T) {
	var auth string
	srv := gatewayStub(t, http.StatusOK,
		`{"status":"success","data":{"status":"successful","amount":1999,"currency":"NGN"}}`, &auth)
	defer srv.Close()

	err := stubClient(srv, "sk").Verify(context.Background(), "tx-1", 2000)
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
}

func TestVerify_WrongCurrency(t *testing.T) {
	var auth string
	srv := gatewayStub(t, http.StatusOK,
		`{"status":"success","data":{"status":"successful","amount":2000,"currency":"USD"}}`, &auth)
	defer srv.Close()

	err := stubClient(srv, "sk").Verify(context.Background(), "tx-1", 2000)
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
}

func TestVerify_FailedTransaction(t *testing.T) {
	var auth string
	srv := gatewayStub(t, http.StatusOK,
		`{"status":"success","data":{"status":"failed","amount":2000,"currency":"NGN"}}`, &auth)
	defer srv.Close()

	err := stubClient(srv, "sk").Verify(context.Background(), "tx-1", 2000)
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
}

func TestVerify_GatewayError(t *testing.T) {
	var auth string
	srv := gatewayStub(t, http.StatusNotFound, `{"status":"error"}`, &auth)
	defer srv.Close()

	err := stubClient(srv, "sk").Verify(context.Background(), "tx-unknown", 2000)
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
}
