package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
)

// RequestParams captures transport-level request attributes into the context.
func RequestParams() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
			if idx := strings.Index(ip, ","); idx >= 0 {
				ip = strings.TrimSpace(ip[:idx])
			}
			if ip == "" {
				host, _, err := net.SplitHostPort(r.RemoteAddr)
				if err == nil {
					ip = host
				} else {
					ip = r.RemoteAddr
				}
			}
			params := &composables.Params{
				IP:        ip,
				UserAgent: r.UserAgent(),
				Request:   r,
				Writer:    w,
			}
			next.ServeHTTP(w, r.WithContext(composables.WithParams(r.Context(), params)))
		})
	}
}
