package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"trivia-service/internal/domain"

	"go.uber.org/zap"
)

type ctxKey struct{}

// WithIdentity stores the verified caller on ctx.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the caller verified by Middleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	return id, ok && id.UID != ""
}

type gate struct {
	verifier      Verifier
	invalidStatus int
	log           *zap.Logger
}

type GateOption func(*gate)

// RejectInvalidWith sets the status for tokens that fail verification.
// The default is 403; missing or malformed headers always get 401.
func RejectInvalidWith(status int) GateOption {
	return func(g *gate) { g.invalidStatus = status }
}

// WithLogger logs rejected credentials at debug level.
func WithLogger(log *zap.Logger) GateOption {
	return func(g *gate) { g.log = log }
}

// Middleware requires a valid bearer token and stores the caller's identity
// on the request context.
func Middleware(v Verifier, opts ...GateOption) func(http.Handler) http.Handler {
	g := &gate{verifier: v, invalidStatus: http.StatusForbidden, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := BearerToken(r)
			if err != nil {
				reject(w, http.StatusUnauthorized, "missing or malformed bearer token")
				return
			}
			id, err := g.verifier.Verify(r.Context(), raw)
			if err != nil {
				g.log.Debug("rejected bearer token", zap.String("path", r.URL.Path), zap.Error(err))
				if errors.Is(err, domain.ErrUnauthenticated) {
					reject(w, http.StatusUnauthorized, "missing or malformed bearer token")
					return
				}
				reject(w, g.invalidStatus, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
