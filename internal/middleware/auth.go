// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the authenticated user's claims.
	UserKey contextKey = "user"
)

// Claims are the bearer token claims issued by the auth service. UID
// identifies the page owner.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var errMissingUID = errors.New("token has no uid claim")

// ParseToken verifies an HS256 token signed with secret and returns its
// claims.
func ParseToken(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.UID == "" {
		return nil, errMissingUID
	}
	return claims, nil
}

// SignToken issues an HS256 token for claims. Used by the CLI and tests.
func SignToken(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// token and stores the verified claims in the request context.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "NO_TOKEN", "Access token is required", nil)
				return
			}

			claims, err := ParseToken(token, secret)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "INVALID_JWT", "Invalid or expired JWT token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserFromCtx returns the authenticated claims, or nil when the request
// did not pass RequireAuth.
func UserFromCtx(ctx context.Context) *Claims {
	claims, _ := ctx.Value(UserKey).(*Claims)
	return claims
}

// UserIDFromCtx returns the authenticated user's ID, or "".
func UserIDFromCtx(ctx context.Context) string {
	if c := UserFromCtx(ctx); c != nil {
		return c.UID
	}
	return ""
}
