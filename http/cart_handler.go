package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"member-services/domain"
	"member-services/repository"
	"member-services/service"
)

// CartHandler serves the storefront cart and checkout for the caller's
// session. Carts live in the persistent store, order handoffs in the
// expiring session store.
type CartHandler struct {
	carts    repository.KeyValueStore
	sessions repository.KeyValueStore
	checkout *service.CheckoutService
	logger   *zap.Logger
}

func NewCartHandler(
	carts repository.KeyValueStore,
	sessions repository.KeyValueStore,
	checkout *service.CheckoutService,
	logger *zap.Logger,
) *CartHandler {
	return &CartHandler{
		carts:    carts,
		sessions: sessions,
		checkout: checkout,
		logger:   logger,
	}
}

type cartResponse struct {
	Items    []domain.CartLine `json:"items"`
	Subtotal json.Number       `json:"subtotal"`
	Total    json.Number       `json:"total"`
	Count    int               `json:"count"`
}

type addItemRequest struct {
	domain.Product
	Quantity *int `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type checkoutRequest struct {
	PaymentMethod *string `json:"paymentMethod"`
}

type orderResponse struct {
	OrderID string `json:"orderId"`
}

func (h *CartHandler) cartFor(r *http.Request) (*service.CartStore, bool) {
	id := sessionID(r.Context())
	if id == "" {
		return nil, false
	}
	return service.NewCartStore(h.carts, service.CartKey(id), h.logger.With(zap.String("session", id))), true
}

func (h *CartHandler) handoffFor(r *http.Request) *service.CheckoutHandoff {
	return service.NewCheckoutHandoff(h.sessions, service.HandoffKey(sessionID(r.Context())))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartFor(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "missing session", "")
		return
	}
	h.writeCart(w, r, cart, http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartFor(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "missing session", "")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	if err := cart.Add(r.Context(), req.Product, qty); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.writeCart(w, r, cart, http.StatusOK)
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartFor(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "missing session", "")
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", "quantity is required")
		return
	}

	if err := cart.SetQuantity(r.Context(), r.PathValue("id"), *req.Quantity); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.writeCart(w, r, cart, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartFor(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "missing session", "")
		return
	}

	if err := cart.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.writeCart(w, r, cart, http.StatusOK)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartFor(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "missing session", "")
		return
	}

	if err := cart.Clear(r.Context()); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.writeCart(w, r, cart, http.StatusOK)
}

// Checkout forwards the caller's bearer token to the order backend.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartFor(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "missing session", "")
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "login required", "")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	orderID, err := h.checkout.Submit(r.Context(), cart, h.handoffFor(r), token, req.PaymentMethod)
	if err != nil && orderID == "" {
		writeServiceError(w, h.logger, err)
		return
	}
	if err != nil {
		// the order exists; report it so the client does not resubmit
		h.logger.Warn("checkout completed with errors",
			zap.String("order_id", orderID),
			zap.Error(err))
	}

	writeJSON(w, h.logger, http.StatusCreated, orderResponse{OrderID: orderID})
}

// Confirmation returns the last checkout's order id once per session.
func (h *CartHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	if sessionID(r.Context()) == "" {
		writeJSONError(w, http.StatusBadRequest, "missing session", "")
		return
	}

	orderID, found, err := h.handoffFor(r).Take(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !found {
		writeJSONError(w, http.StatusNotFound, "no order to confirm", "")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, orderResponse{OrderID: orderID})
}

func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, cart *service.CartStore, status int) {
	lines, err := cart.Lines(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	subtotal := service.SumLines(lines)

	writeJSON(w, h.logger, status, cartResponse{
		Items:    lines,
		Subtotal: domain.Amount(subtotal),
		Total:    domain.Amount(subtotal),
		Count:    count,
	})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}
