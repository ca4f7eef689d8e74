package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/orderhub/orderhub/internal/apperr"
	"github.com/orderhub/orderhub/internal/auth"
	"github.com/orderhub/orderhub/internal/model"
)

type contextKeyAuth string

const identityKey contextKeyAuth = "identity"

// identityCarrier holds the resolved identity behind a pointer so middleware
// that ran earlier in the chain (the request logger) can observe the value
// Authenticate fills in later.
type identityCarrier struct {
	identity auth.Identity
}

// WithIdentity returns a context carrying the given identity. Used by the
// middleware chain and by tests that call handlers directly.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, &identityCarrier{identity: identity})
}

// GetIdentity extracts the caller identity from the context. Returns the
// anonymous identity if authentication never ran.
func GetIdentity(ctx context.Context) auth.Identity {
	if c, ok := ctx.Value(identityKey).(*identityCarrier); ok {
		return c.identity
	}
	return auth.Anonymous()
}

// Authenticate returns an HTTP middleware that resolves the caller identity
// from the Authorization header. A missing header yields the anonymous
// identity and the request proceeds; authorization decisions are made per
// operation downstream. A present but malformed or invalid credential is
// rejected with 401 before any handler runs.
func Authenticate(validator *auth.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.Anonymous()

			if header := r.Header.Get("Authorization"); header != "" {
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok {
					writeAuthError(w, "authorization header must use the Bearer scheme")
					return
				}
				var err error
				identity, err = validator.Validate(token)
				if err != nil {
					writeAuthError(w, "invalid token")
					return
				}
			}

			if c, ok := r.Context().Value(identityKey).(*identityCarrier); ok {
				c.identity = identity
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: model.ErrorDetail{
			Kind:    string(apperr.KindUnauthenticated),
			Message: message,
		},
	})
}
