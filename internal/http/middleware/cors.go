package middleware

import (
	"net/http"
	"strings"
)

// AllowedHeaders lists the request headers browsers may send cross-origin.
const AllowedHeaders = "authorization, x-client-info, apikey, content-type"

const allowedMethods = "GET, POST, OPTIONS"

// CORS provides an allowlist-based CORS middleware. With "*" in
// allowedOrigins every origin is allowed and answered with a literal "*".
// OPTIONS requests from allowed origins are answered with 204 and no body.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := false
	allow := map[string]struct{}{}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAny = true
			continue
		}
		allow[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			allowed := allowAny || isAllowedOrigin(allow, origin)
			if allowed {
				if allowAny {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Headers", AllowedHeaders)
				w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
				w.Header().Set("Access-Control-Max-Age", "600")
			}

			if r.Method == http.MethodOptions && allowed {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isAllowedOrigin(allow map[string]struct{}, origin string) bool {
	if origin == "" {
		return false
	}
	_, ok := allow[origin]
	return ok
}
