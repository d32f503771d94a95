package service

import (
	"context"
	"fmt"

	"member-services/repository"
)

// CheckoutHandoff passes a freshly created order id to the confirmation view.
// The id can be read once; later reads report it absent.
type CheckoutHandoff struct {
	store repository.KeyValueStore
	key   string
}

func NewCheckoutHandoff(store repository.KeyValueStore, key string) *CheckoutHandoff {
	return &CheckoutHandoff{store: store, key: key}
}

func HandoffKey(sessionID string) string {
	return HandoffKeyPrefix + sessionID
}

func (h *CheckoutHandoff) Put(ctx context.Context, orderID string) error {
	if err := h.store.Set(ctx, h.key, orderID); err != nil {
		return fmt.Errorf("store order handoff: %w", err)
	}
	return nil
}

func (h *CheckoutHandoff) Take(ctx context.Context) (string, bool, error) {
	if p, ok := h.store.(repository.Popper); ok {
		id, found, err := p.Pop(ctx, h.key)
		if err != nil {
			return "", false, fmt.Errorf("take order handoff: %w", err)
		}
		return id, found, nil
	}

	id, found, err := h.store.Get(ctx, h.key)
	if err != nil {
		return "", false, fmt.Errorf("read order handoff: %w", err)
	}
	if !found {
		return "", false, nil
	}
	if err := h.store.Remove(ctx, h.key); err != nil {
		return "", false, fmt.Errorf("clear order handoff: %w", err)
	}
	return id, true, nil
}
