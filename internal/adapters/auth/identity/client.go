// Package identity verifica tokens contra un proveedor de identidad externo
// mediante introspección HTTP.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"civic-grievances/internal/platform/httpclient"
	"civic-grievances/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("identity client not configured")
	ErrUpstream      = errors.New("identity upstream error")
)

const introspectPath = "/v1/tokens/introspect"

type Config struct {
	BaseURL string
	APIKey  string

	// Header de la API key; vacío usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}
	return &Client{http: hc, apiKey: strings.TrimSpace(cfg.APIKey), apiKeyHeader: h}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type introspectResponse struct {
	Active  bool   `json:"active"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Role    string `json:"role"`
}

// Introspect devuelve los claims de un token activo.
func (c *Client) Introspect(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	var out introspectResponse
	err := c.http.DoJSON(ctx, http.MethodPost, introspectPath,
		map[string]string{c.apiKeyHeader: c.apiKey, "Authorization": "Bearer " + token},
		map[string]string{"token": token}, &out)
	switch code := httpclient.StatusCode(err); {
	case err == nil:
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return auth.Claims{}, auth.ErrUnauthorized
	default:
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if !out.Active {
		return auth.Claims{}, auth.ErrUnauthorized
	}
	return auth.Claims{
		UserID:  strings.TrimSpace(out.UserID),
		Email:   strings.TrimSpace(out.Email),
		Name:    strings.TrimSpace(out.Name),
		Picture: strings.TrimSpace(out.Picture),
		Role:    strings.TrimSpace(out.Role),
	}, nil
}
