package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"member-services/domain"
)

// OrderCreator submits a checkout to the cooperative's order backend and
// returns the new order id.
type OrderCreator interface {
	CreateOrder(ctx context.Context, memberToken string, req domain.CheckoutRequest) (string, error)
}

type OrderClient struct {
	apiURL     string
	httpClient *http.Client
}

func NewOrderClient(apiURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type orderErrorResponse struct {
	Error string `json:"error"`
}

// CreateOrder posts the request once. It does not retry; a non-2xx answer
// becomes a *CheckoutRejectedError with the backend's message.
func (c *OrderClient) CreateOrder(
	ctx context.Context,
	memberToken string,
	req domain.CheckoutRequest,
) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+memberToken)
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send order request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp orderErrorResponse
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return "", &CheckoutRejectedError{StatusCode: resp.StatusCode, Message: msg}
	}

	return extractOrderID(respBody)
}

// extractOrderID accepts the id shapes the order backend has used:
// orderId, order_id, id, or data.id, as a string or a number.
func extractOrderID(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}

	for _, key := range []string{"orderId", "order_id", "id"} {
		if id := idString(payload[key]); id != "" {
			return id, nil
		}
	}
	if data, ok := payload["data"].(map[string]any); ok {
		for _, key := range []string{"orderId", "order_id", "id"} {
			if id := idString(data[key]); id != "" {
				return id, nil
			}
		}
	}
	return "", ErrMissingOrderID
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	}
	return ""
}
