package http

import "net/http"

// NewRouter registers every endpoint behind the session and rate limit
// middleware.
func NewRouter(loans *LoanHandler, carts *CartHandler, limiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/loan/schedule", loans.CalculateSchedule)
	mux.HandleFunc("/loan/recommend-tenor", loans.RecommendTenor)

	mux.HandleFunc("GET /cart", carts.GetCart)
	mux.HandleFunc("DELETE /cart", carts.ClearCart)
	mux.HandleFunc("POST /cart/items", carts.AddItem)
	mux.HandleFunc("PUT /cart/items/{id}", carts.SetQuantity)
	mux.HandleFunc("DELETE /cart/items/{id}", carts.RemoveItem)
	mux.HandleFunc("POST /cart/checkout", carts.Checkout)
	mux.HandleFunc("GET /checkout/confirmation", carts.Confirmation)

	return RateLimitMiddleware(limiter, SessionMiddleware(mux))
}
