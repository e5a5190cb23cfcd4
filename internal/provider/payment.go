package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spec-kit/event-booking/internal/config"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// CheckoutSession is the provider's handle for one hosted payment page.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CheckoutStatus reports the provider's view of a session. PaymentStatus is
// the source of truth for the booking workflow; Status is informational.
type CheckoutStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

// CreateSessionInput carries everything needed to open a checkout session.
type CreateSessionInput struct {
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// PaymentClient is the narrow contract against the external checkout provider.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, input CreateSessionInput) (*CheckoutSession, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error)
}

type paymentClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewPaymentClient builds the HTTP client for the configured provider.
func NewPaymentClient(cfg config.PaymentConfig) PaymentClient {
	return &paymentClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *paymentClient) CreateCheckoutSession(ctx context.Context, input CreateSessionInput) (*CheckoutSession, error) {
	payload := map[string]any{
		"amount":      input.AmountCents,
		"currency":    input.Currency,
		"success_url": input.SuccessURL,
		"cancel_url":  input.CancelURL,
		"metadata":    input.Metadata,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("payment", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("payment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperrors.NewUpstreamFailure("payment",
			fmt.Errorf("create session: unexpected status %d", resp.StatusCode))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, apperrors.NewUpstreamFailure("payment", err)
	}
	if session.SessionID == "" || session.URL == "" {
		return nil, apperrors.NewUpstreamFailure("payment",
			fmt.Errorf("incomplete checkout session"))
	}
	return &session, nil
}

func (c *paymentClient) GetSessionStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("payment", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("payment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewNotFound("checkout session", map[string]any{"session_id": sessionID})
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamFailure("payment",
			fmt.Errorf("session status: unexpected status %d", resp.StatusCode))
	}

	var status CheckoutStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, apperrors.NewUpstreamFailure("payment", err)
	}
	return &status, nil
}
