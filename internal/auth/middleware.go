package auth

import (
	"net/http"
	"strings"

	"bookcatalog/internal/apperr"
)

// ErrorWriter renders a failure response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

var (
	errMissingToken = apperr.New(apperr.KindMissingToken, "token missing")
	errBadToken     = apperr.New(apperr.KindInvalidToken, "invalid token")
)

// JWTAuth requires a bearer token and stores the verified actor in the
// request context.
func JWTAuth(tokens *TokenIssuer, fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := strings.TrimSpace(r.Header.Get("Authorization"))
			if h == "" {
				fail(w, r, errMissingToken)
				return
			}
			scheme, raw, ok := strings.Cut(h, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				fail(w, r, errBadToken)
				return
			}
			actor, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				fail(w, r, errBadToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
