package middleware

import (
	"net/http"
	"strings"
)

// CORSMiddleware allows browser calls from a fixed list of origins. An entry
// may use "*" in place of the leftmost host labels, as in
// "https://*.netlify.app".
type CORSMiddleware struct {
	allowedOrigins []string
}

func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	return &CORSMiddleware{
		allowedOrigins: allowedOrigins,
	}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		if origin != "" && m.Allowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		w.Header().Add("Vary", "Origin")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}

// Allowed reports whether origin matches one of the configured entries.
func (m *CORSMiddleware) Allowed(origin string) bool {
	for _, allowed := range m.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if matchWildcardOrigin(allowed, origin) {
			return true
		}
	}
	return false
}

func matchWildcardOrigin(pattern, origin string) bool {
	i := strings.Index(pattern, "*")
	if i < 0 {
		return false
	}
	prefix, suffix := pattern[:i], pattern[i+1:]
	if len(origin) <= len(prefix)+len(suffix) {
		return false
	}
	if !strings.HasPrefix(origin, prefix) || !strings.HasSuffix(origin, suffix) {
		return false
	}
	// The wildcard stands for host labels only, never a scheme or port.
	middle := origin[len(prefix) : len(origin)-len(suffix)]
	return !strings.ContainsAny(middle, "/:")
}
