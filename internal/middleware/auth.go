// Package middleware содержит HTTP middleware маркетплейс-бота.
package middleware

import (
	"crypto/hmac"
	"net/http"
	"strings"
)

// AuthMiddleware проверяет токен оператора в заголовке Authorization.
type AuthMiddleware struct {
	token []byte
}

// NewAuthMiddleware создаёт middleware с указанным токеном оператора.
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{token: []byte(token)}
}

// Middleware пропускает запрос дальше только с корректным bearer-токеном.
// Сравнение выполняется за постоянное время.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !hmac.Equal([]byte(presented), a.token) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
