package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trivia-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier turns a bearer credential into the caller's identity. Failures
// wrap domain.ErrForbidden.
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// Claims carried by identity tokens. Subject is the stable user id; some
// providers put it in user_id instead.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

type VerifierOption func(*JWTVerifier)

// WithIssuer requires the iss claim to equal issuer.
func WithIssuer(issuer string) VerifierOption {
	return func(v *JWTVerifier) { v.issuer = issuer }
}

// WithAudience requires aud to contain audience.
func WithAudience(audience string) VerifierOption {
	return func(v *JWTVerifier) { v.audience = audience }
}

func NewJWTVerifier(secret string, opts ...VerifierOption) *JWTVerifier {
	v := &JWTVerifier{secret: []byte(secret)}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *JWTVerifier) Verify(_ context.Context, raw string) (domain.Identity, error) {
	if len(v.secret) == 0 {
		return domain.Identity{}, fmt.Errorf("%w: verifier has no secret", domain.ErrForbidden)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, parserOpts...)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrForbidden, err)
	}
	if !token.Valid {
		return domain.Identity{}, domain.ErrForbidden
	}

	uid := claims.Subject
	if uid == "" {
		uid = claims.UserID
	}
	if uid == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrForbidden)
	}
	return domain.Identity{UID: uid, Name: claims.Name, Email: claims.Email}, nil
}

// TokenRequest describes a token minted by Issue.
type TokenRequest struct {
	Subject  string
	Name     string
	Email    string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Issue signs an HS256 token. It backs the development token command and
// tests; production tokens come from the identity provider.
func Issue(secret string, req TokenRequest) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is empty")
	}
	if req.Subject == "" {
		return "", errors.New("subject is required")
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := Claims{
		Name:  req.Name,
		Email: req.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.Subject,
			Issuer:    req.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if req.Audience != "" {
		claims.Audience = jwt.ClaimStrings{req.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
