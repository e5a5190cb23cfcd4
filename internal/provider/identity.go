// Package provider holds the clients for the external collaborators: the OAuth
// session exchange and the checkout provider. Both are narrow HTTP contracts;
// the rest of the service depends only on the interfaces defined here.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spec-kit/event-booking/internal/config"
	apperrors "github.com/spec-kit/event-booking/pkg/util"
)

// IdentityData is what the OAuth provider returns for a valid session id.
type IdentityData struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture"`
	SessionToken string  `json:"session_token"`
}

// IdentityClient exchanges an opaque session id for the caller's identity.
type IdentityClient interface {
	ResolveSession(ctx context.Context, sessionID string) (*IdentityData, error)
}

type identityClient struct {
	baseURL string
	http    *http.Client
}

// NewIdentityClient builds the HTTP client for the configured provider.
func NewIdentityClient(cfg config.IdentityProviderConfig) IdentityClient {
	return &identityClient{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *identityClient) ResolveSession(ctx context.Context, sessionID string) (*IdentityData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session-data", nil)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("identity", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("identity", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return nil, apperrors.NewUnauthorized("invalid session")
	default:
		return nil, apperrors.NewUpstreamFailure("identity",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var data IdentityData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, apperrors.NewUpstreamFailure("identity", err)
	}
	if data.Email == "" || data.SessionToken == "" {
		return nil, apperrors.NewUpstreamFailure("identity",
			fmt.Errorf("incomplete session data"))
	}
	return &data, nil
}
