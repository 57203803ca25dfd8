package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Actor identifies the authenticated user a commit is attributed to.
type Actor struct {
	ID       uuid.UUID
	Username string
	Role     string
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Resolver maps a request's bearer token to the acting user.
type Resolver struct {
	secret []byte
}

func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

func (r *Resolver) Resolve(tokenString string) (Actor, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, ErrInvalidToken
	}

	return Actor{ID: id, Username: claims.Username, Role: claims.Role}, nil
}

type contextKey struct{}

// Middleware validates the Authorization header and stores the resolved
// actor in the request context. Handlers pass the actor explicitly into
// services; nothing below the HTTP layer reads it from context.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header := req.Header.Get("Authorization")

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			http.Error(w, "bearer token required", http.StatusUnauthorized)
			return
		}

		actor, err := r.Resolve(tokenString)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), contextKey{}, actor)))
	})
}

// FromContext returns the actor stored by Middleware.
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}
