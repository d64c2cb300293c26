package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/services"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor returns a copy of ctx carrying the authenticated actor.
func WithActor(ctx context.Context, a models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFromContext returns the actor set by AuthMiddleware.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	a, ok := ctx.Value(actorKey).(models.Actor)
	return a, ok && a.ID != ""
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			services.SendErrorResponse(w, "Authorization header required", http.StatusUnauthorized, nil)
			return
		}

		// Extract token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			services.SendErrorResponse(w, "Invalid authorization header format", http.StatusUnauthorized, nil)
			return
		}

		actor, err := validateToken(parts[1], viper.GetString("jwt.secret_key"))
		if err != nil {
			services.SendErrorResponse(w, "Invalid token", http.StatusUnauthorized, nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireRole rejects requests whose actor does not hold role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
				return
			}
			if actor.Role != role {
				services.SendErrorResponse(w, "Forbidden", http.StatusForbidden, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validateToken(tokenString, secret string) (models.Actor, error) {
	if secret == "" {
		return models.Actor{}, errors.New("jwt secret not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return models.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, errors.New("unexpected claims type")
	}

	userID := claims["user_id"]
	if userID == nil {
		return models.Actor{}, errors.New("token has no user_id")
	}
	actor := models.Actor{ID: fmt.Sprintf("%v", userID), Role: models.RoleStaff}
	if name, ok := claims["name"].(string); ok {
		actor.Name = name
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		actor.Role = strings.ToLower(role)
	}
	return actor, nil
}
