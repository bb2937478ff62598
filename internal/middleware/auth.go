package middleware

import (
	"context"
	"net/http"
	"strings"

	"zenith-pos/internal/service"

	"go.uber.org/zap"
)

// TokenHeader carries the operator token issued by /api/login.
const TokenHeader = "X-Auth-Token"

type contextKey string

const operatorKey contextKey = "operator"

// Operator is the signed-in terminal operator named by a request token.
type Operator struct {
	ID   string
	Name string
}

// TokenValidator verifies an operator token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware identifies the operator from the X-Auth-Token header or an
// Authorization bearer token. Requests without a token pass through
// anonymously; a token that does not verify is rejected with 401.
func AuthMiddleware(validator TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := WithOperator(r.Context(), Operator{ID: claims.UserID, Name: claims.Name})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) (string, bool) {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token, true
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		// Present but unusable; let the parser reject it.
		return authHeader, true
	}
	return token, true
}

// WithOperator returns a copy of ctx carrying op
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey, op)
}

// GetOperator extracts the operator from request context
func GetOperator(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorKey).(Operator)
	return op, ok
}
