package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rooterworks/rmetrack/internal/identity"
)

// Auth validates the dashboard bearer token and puts the manager identity on
// the request context. Session issuance lives in the company SSO service;
// this side only verifies and extracts.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			user, err := parseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
		})
	}
}

func parseToken(tokenString, secret string) (identity.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return identity.User{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.User{}, fmt.Errorf("unexpected claims type")
	}

	name, _ := claims["name"].(string)

	email, _ := claims["email"].(string)
	if email == "" {
		return identity.User{}, fmt.Errorf("token missing email claim")
	}

	return identity.User{Name: name, Email: email}, nil
}
