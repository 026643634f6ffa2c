// internal/infra/web/middleware.go
package web

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth guards the API with a single static token carried as
// "Authorization: Bearer <token>".
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			provided, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
