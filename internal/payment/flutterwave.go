package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrVerificationFailed is returned when the gateway reports the transaction
// as anything but successful, or when the paid amount/currency does not cover
// what the caller expected.  Handlers translate it to 400 with no mutation.
var ErrVerificationFailed = errors.New("payment verification failed")

// Verifier confirms that a client-completed transaction really settled for at
// least the expected amount.  Implemented by Client; mocked in handler tests.
type Verifier interface {
	Verify(ctx context.Context, transactionID string, expectedAmount int) error
}

// Client calls Flutterwave's transaction verify endpoint with the account's
// secret key.  The zero value is unusable; use NewClient.
type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

// NewClient builds a Flutterwave client.  The request timeout is bounded so a
// slow gateway cannot hang registration or upgrade requests indefinitely.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   "https://api.flutterwave.com/v3",
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// verifyResponse mirrors the fields of the verify payload we act on.
type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Status   string  `json:"status"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"data"`
}

// Verify fetches the transaction from the gateway and checks it settled
// successfully in NGN for at least expectedAmount.  Any shortfall or
// non-successful status maps to ErrVerificationFailed.
func (c *Client) Verify(ctx context.Context, transactionID string, expectedAmount int) error {
	endpoint := fmt.Sprintf("%s/transactions/%s/verify", c.baseURL, url.PathEscape(transactionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway returned %d", ErrVerificationFailed, resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if body.Status != "success" || body.Data.Status != "successful" {
		return ErrVerificationFailed
	}
	if body.Data.Currency != "NGN" {
		return ErrVerificationFailed
	}
	if body.Data.Amount < float64(expectedAmount) {
		return fmt.Errorf("%w: paid %.2f, expected at least %d", ErrVerificationFailed, body.Data.Amount, expectedAmount)
	}
	return nil
}
