// Package jwtverifier valida tokens HS256 firmados por el backend de identidad.
package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civic-grievances/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	Secret string
	Issuer string // opcional; si se define se exige
	Leeway time.Duration
}

// tokenClaims son los claims esperados; "sub" es el user id.
type tokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func New(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("jwt secret required")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &Verifier{secret: []byte(cfg.Secret), parser: jwt.NewParser(opts...)}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	var tc tokenClaims
	_, err := v.parser.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUnauthorized, err)
	}

	sub := strings.TrimSpace(tc.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", auth.ErrUnauthorized)
	}
	return auth.Claims{
		UserID:  sub,
		Email:   strings.TrimSpace(tc.Email),
		Name:    strings.TrimSpace(tc.Name),
		Picture: strings.TrimSpace(tc.Picture),
		Role:    strings.TrimSpace(tc.Role),
	}, nil
}

// Sign emite un token con los claims dados (seed, tests y herramientas dev).
func Sign(secret string, c auth.Claims, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	tc := tokenClaims{
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
		Role:    c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString([]byte(secret))
}
