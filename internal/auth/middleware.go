package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

// Claims is the token payload the external auth service signs.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Middleware validates the Authorization bearer token and attaches the
// operator identity to the request context. A missing or invalid token gets
// the distinct 401 message, since the remedy (log in again) differs from a
// data problem.
type Middleware struct {
	secret []byte
}

// NewMiddleware builds the bearer-token middleware from the shared secret.
func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: []byte(secret)}
}

// Require rejects requests without a valid bearer token.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !parsed.Valid {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}

		userID, _ := strconv.ParseInt(claims.Subject, 10, 64)
		ctx := ContextWithIdentity(r.Context(), Identity{
			UserID: userID,
			Name:   claims.Name,
			Role:   claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
