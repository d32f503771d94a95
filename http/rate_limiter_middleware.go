package http

import (
	"math"
	"net"
	"net/http"
	"strconv"
)

func RateLimitMiddleware(
	limiter *RateLimiter,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		allowed, wait := limiter.Allow(ip)
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded", "")
			return
		}

		next.ServeHTTP(w, r)
	})
}
