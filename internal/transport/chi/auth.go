package chi

import (
	"crypto/subtle"
	"net/http"

	"github.com/kailas-cloud/osconnect/internal/domain/auth"
)

const codeUnauthorized = "unauthorized"

// exemptPaths are routes that bypass authentication (probes, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// BasicAuthMiddleware returns a middleware that validates HTTP basic credentials.
// If creds is nil, authentication is disabled (pass-through).
func BasicAuthMiddleware(creds *auth.Basic, realm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if creds == nil {
			return next
		}

		challenge := `Basic realm="` + realm + `", charset="UTF-8"`
		want := []byte(creds.Header())

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get("Authorization")
			if got == "" {
				w.Header().Set("WWW-Authenticate", challenge)
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				w.Header().Set("WWW-Authenticate", challenge)
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
