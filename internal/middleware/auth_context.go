package middleware

import (
	"context"
	"net/http"
	"strings"

	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/ports/auth"
)

type ctxKey string

const sessionKey ctxKey = "session"

// Session es la identidad verificada más el rol resuelto del request.
type Session struct {
	Claims auth.Claims
	Role   roles.Role
}

type AuthOptions struct {
	// TrustRoleHeader acepta X-Debug-User-Role en modo dev. Apagado, el rol
	// sale solo de la política por email.
	TrustRoleHeader bool
}

// AuthContext:
// - Si verifier != nil y viene Bearer token => Verify() y setea la sesión.
// - Si verifier == nil => modo dev: headers X-Debug-User-* setean la sesión.
// - Sin sesión el request sigue; los handlers deciden 401/403.
func AuthContext(verifier auth.AuthVerifier, policy roles.Policy, log logger.Logger, opts AuthOptions) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFor(r, verifier, log, opts)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			s := Session{
				Claims: claims,
				Role:   roles.Resolve(claims.Role, claims.Email, policy),
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func claimsFor(r *http.Request, verifier auth.AuthVerifier, log logger.Logger, opts AuthOptions) (auth.Claims, bool) {
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID"))
		if uid == "" {
			return auth.Claims{}, false
		}
		c := auth.Claims{
			UserID: uid,
			Email:  strings.TrimSpace(r.Header.Get("X-Debug-User-Email")),
			Name:   strings.TrimSpace(r.Header.Get("X-Debug-User-Name")),
		}
		if opts.TrustRoleHeader {
			c.Role = strings.TrimSpace(r.Header.Get("X-Debug-User-Role"))
		}
		return c, true
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		logger.FromContext(r.Context(), log).Debug("token rejected", logger.Fields{"err": err})
		return auth.Claims{}, false
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return auth.Claims{}, false
	}
	return claims, true
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func GetSession(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	s, ok := GetSession(ctx)
	return s.Claims, ok
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
