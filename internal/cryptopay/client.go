// Package cryptopay is a thin client for the Crypto Pay API (CryptoBot),
// used to settle debts in crypto: invoices collect money from a debtor,
// transfers push money to a creditor's Telegram account.
package cryptopay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://pay.crypt.bot/api"

// DefaultAsset is the currency debts are settled in.
const DefaultAsset = "USDT"

// Client talks to the Crypto Pay API. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client authenticated with the given API token.
func New(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithBaseURL creates a client against a custom API base URL. Used by tests.
func NewWithBaseURL(token, baseURL string) *Client {
	c := New(token)
	c.baseURL = baseURL
	return c
}

// Invoice is a payment request a debtor can open and pay.
type Invoice struct {
	InvoiceID int64  `json:"invoice_id"`
	Status    string `json:"status"`
	Asset     string `json:"asset"`
	Amount    string `json:"amount"`
	PayURL    string `json:"pay_url"`
}

// Transfer is a completed push payment to a Telegram user.
type Transfer struct {
	TransferID  int64  `json:"transfer_id"`
	UserID      int64  `json:"user_id"`
	Asset       string `json:"asset"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at"`
}

type apiEnvelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

type apiError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// CreateInvoice creates a payment invoice and returns it, including the
// pay URL the debtor opens to complete payment.
func (c *Client) CreateInvoice(ctx context.Context, asset string, amount decimal.Decimal, description, payload string) (*Invoice, error) {
	body := map[string]interface{}{
		"asset":  asset,
		"amount": amount.String(),
	}
	if description != "" {
		body["description"] = description
	}
	if payload != "" {
		body["payload"] = payload
	}

	var invoice Invoice
	if err := c.call(ctx, "/createInvoice", body, &invoice); err != nil {
		return nil, err
	}
	if invoice.PayURL == "" {
		return nil, fmt.Errorf("crypto pay: invoice %d has no pay url", invoice.InvoiceID)
	}
	return &invoice, nil
}

// SendTransfer sends a transfer to a Telegram user. spendID deduplicates
// retried transfers; a fresh one is generated when empty.
func (c *Client) SendTransfer(ctx context.Context, telegramID int64, asset string, amount decimal.Decimal, spendID, comment string) (*Transfer, error) {
	if spendID == "" {
		spendID = uuid.New().String()
	}
	body := map[string]interface{}{
		"user_id":  telegramID,
		"asset":    asset,
		"amount":   amount.StringFixed(8),
		"spend_id": spendID,
	}
	if comment != "" {
		body["comment"] = comment
	}

	var transfer Transfer
	if err := c.call(ctx, "/transfer", body, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (c *Client) call(ctx context.Context, path string, body map[string]interface{}, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("crypto pay: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("crypto pay: failed to build request: %w", err)
	}
	req.Header.Set("Crypto-Pay-API-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("crypto pay: request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("crypto pay: failed to decode response: %w", err)
	}
	if !envelope.OK {
		if envelope.Error != nil {
			return fmt.Errorf("crypto pay: api error %d (%s)", envelope.Error.Code, envelope.Error.Name)
		}
		return fmt.Errorf("crypto pay: api error, status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("crypto pay: failed to decode result: %w", err)
	}
	return nil
}
