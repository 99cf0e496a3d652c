package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"civic-grievances/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier usando el Client.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	claims, err := v.client.Introspect(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("identity verify failed: %w", err)
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return auth.Claims{}, errors.New("identity claims missing user id")
	}
	return claims, nil
}
