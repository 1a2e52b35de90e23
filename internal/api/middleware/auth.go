package middleware

import (
	"net/http"

	"github.com/mkuznecov/zapisly/internal/api/handlers"
)

const msgUnauthorized = "требуется заголовок X-User-ID"

// Auth проверяет наличие корректного заголовка X-User-ID.
// Сами проверки владения выполняются на уровне сервисов.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := handlers.UserIDFromRequest(r); err != nil {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
