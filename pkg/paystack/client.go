package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	"github.com/gracechapel-dev/churchhub-backend/pkg/logger"
)

const defaultBaseURL = "https://api.paystack.co"

var (
	errSecretKeyRequired = errors.New("paystack secret key is required")
	errInvalidSecretKey  = errors.New("paystack secret key must start with sk_")
)

// Client is a thin HTTP client for the Paystack transaction API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// InitializeParams describes one transaction to open on Paystack.
// Amount is in major units; Paystack is charged in kobo.
type InitializeParams struct {
	Email     string
	Amount    decimal.Decimal
	Currency  string
	Reference string
}

// InitializeResult carries the checkout handle Paystack returned.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult is the settled view of one transaction.
type VerifyResult struct {
	Reference string
	Status    string
	Amount    decimal.Decimal
	Currency  string
	PaidAt    *time.Time
}

// Succeeded reports whether Paystack settled the charge.
func (v VerifyResult) Succeeded() bool {
	return v.Status == "success"
}

// NewClient validates the configured secret and returns a client.
func NewClient(ctx context.Context, cfg config.PaystackConfig, logg *logger.Logger) (*Client, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, errSecretKeyRequired
	}
	if !strings.HasPrefix(secret, "sk_") {
		return nil, errInvalidSecretKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if logg != nil {
		logg.Info(ctx, "paystack client initialized")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		secretKey:  secret,
	}, nil
}

// InitializeTransaction opens a transaction and returns the hosted
// checkout URL the mobile client redirects into.
func (c *Client) InitializeTransaction(ctx context.Context, params InitializeParams) (*InitializeResult, error) {
	if c == nil || c.secretKey == "" {
		return nil, errors.New("paystack client not initialized")
	}
	if params.Email == "" {
		return nil, errors.New("email is required")
	}
	if params.Reference == "" {
		return nil, errors.New("reference is required")
	}
	if !params.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}

	currency := params.Currency
	if currency == "" {
		currency = "NGN"
	}

	// Paystack wants the amount in the currency's minor unit.
	body := map[string]any{
		"email":     params.Email,
		"amount":    params.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"currency":  currency,
		"reference": params.Reference,
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", resp.Message)
	}

	return &InitializeResult{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

// VerifyTransaction fetches the authoritative status for a reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	if c == nil || c.secretKey == "" {
		return nil, errors.New("paystack client not initialized")
	}
	if reference == "" {
		return nil, errors.New("reference is required")
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status    string          `json:"status"`
			Reference string          `json:"reference"`
			Amount    decimal.Decimal `json:"amount"`
			Currency  string          `json:"currency"`
			PaidAt    *time.Time      `json:"paid_at"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", resp.Message)
	}

	return &VerifyResult{
		Reference: resp.Data.Reference,
		Status:    resp.Data.Status,
		Amount:    resp.Data.Amount.Div(decimal.NewFromInt(100)),
		Currency:  resp.Data.Currency,
		PaidAt:    resp.Data.PaidAt,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("paystack returned %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("paystack returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding paystack response: %w", err)
	}
	return nil
}
