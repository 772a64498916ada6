package flutterwave

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

const defaultBaseURL = "https://api.flutterwave.com/v3"

var errSecretKeyRequired = errors.New("flutterwave secret key is required")

// Client is a thin HTTP client for the Flutterwave v3 payments API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// InitializeParams describes one payment to open on Flutterwave.
// Unlike Paystack, amounts go over the wire in major units.
type InitializeParams struct {
	Email       string
	Name        string
	Amount      decimal.Decimal
	Currency    string
	Reference   string
	RedirectURL string
}

// InitializeResult carries the hosted payment link.
type InitializeResult struct {
	PaymentLink string
}

// VerifyResult is the settled view of one payment.
type VerifyResult struct {
	Reference string
	Status    string
	Amount    decimal.Decimal
	Currency  string
	PaidAt    *time.Time
}

// Succeeded reports whether Flutterwave settled the charge.
func (v VerifyResult) Succeeded() bool {
	return v.Status == "successful"
}

// NewClient validates the configured secret and returns a client.
func NewClient(ctx context.Context, cfg config.FlutterwaveConfig, logg *logger.Logger) (*Client, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, errSecretKeyRequired
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if logg != nil {
		logg.Info(ctx, "flutterwave client initialized")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		secretKey:  secret,
	}, nil
}

// InitializePayment opens a payment and returns the hosted link.
func (c *Client) InitializePayment(ctx context.Context, params InitializeParams) (*InitializeResult, error) {
	if c == nil || c.secretKey == "" {
		return nil, errors.New("flutterwave client not initialized")
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

	body := map[string]any{
		"tx_ref":       params.Reference,
		"amount":       params.Amount.String(),
		"currency":     currency,
		"redirect_url": params.RedirectURL,
		"customer": map[string]any{
			"email": params.Email,
			"name":  params.Name,
		},
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/payments", body, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("flutterwave initialize rejected: %s", resp.Message)
	}

	return &InitializeResult{PaymentLink: resp.Data.Link}, nil
}

// VerifyPayment fetches the authoritative status for a reference.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*VerifyResult, error) {
	if c == nil || c.secretKey == "" {
		return nil, errors.New("flutterwave client not initialized")
	}
	if reference == "" {
		return nil, errors.New("reference is required")
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status    string          `json:"status"`
			TxRef     string          `json:"tx_ref"`
			Amount    decimal.Decimal `json:"amount"`
			Currency  string          `json:"currency"`
			CreatedAt *time.Time      `json:"created_at"`
		} `json:"data"`
	}
	path := "/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("flutterwave verify rejected: %s", resp.Message)
	}

	return &VerifyResult{
		Reference: resp.Data.TxRef,
		Status:    resp.Data.Status,
		Amount:    resp.Data.Amount,
		Currency:  resp.Data.Currency,
		PaidAt:    resp.Data.CreatedAt,
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
		return fmt.Errorf("flutterwave request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("flutterwave returned %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("flutterwave returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding flutterwave response: %w", err)
	}
	return nil
}
