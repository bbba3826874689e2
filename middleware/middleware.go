package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"task-manager/backend/logging"
	"task-manager/backend/services"
	"task-manager/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const requesterKey contextKey = "requester"

// TokenChecker is the slice of the token store the middleware needs.
type TokenChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// JWTAuthMiddleware validates the bearer token, rejects revoked tokens and
// stores the requester identity in the request context.
func JWTAuthMiddleware(tokens TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for %s %s", r.Method, r.URL.Path)
				unauthorized(w, "Authorization header missing")
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == authHeader {
				unauthorized(w, "Authorization header must use the Bearer scheme")
				return
			}

			claims, err := utils.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
				unauthorized(w, "Invalid token")
				return
			}

			if tokens != nil {
				revoked, err := tokens.IsRevoked(r.Context(), tokenStr)
				if err != nil {
					logging.Logger.Errorf("Event ID: TOKEN_STORE_ERROR, Description: Revocation check failed for %s %s: %v", r.Method, r.URL.Path, err)
					serverError(w)
					return
				}
				if revoked {
					unauthorized(w, "Token has been revoked")
					return
				}
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			requester := services.Requester{ID: userID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(ContextWithRequester(r.Context(), requester)))
		})
	}
}

// ContextWithRequester attaches an authenticated identity to a context.
func ContextWithRequester(ctx context.Context, requester services.Requester) context.Context {
	return context.WithValue(ctx, requesterKey, requester)
}

// RequesterFromContext returns the identity the auth middleware stored.
func RequesterFromContext(ctx context.Context) (services.Requester, bool) {
	requester, ok := ctx.Value(requesterKey).(services.Requester)
	return requester, ok
}

// Recover converts panics into a generic 500 so internals never leak.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Logger.Errorf("Event ID: PANIC_RECOVERED, Description: Panic handling %s %s: %v", r.Method, r.URL.Path, rec)
				serverError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// EnableCORS allows the browser client to reach the API from another origin.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func serverError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"message": "Something went wrong!"})
}
