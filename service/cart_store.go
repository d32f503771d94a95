package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"member-services/domain"
	"member-services/repository"
)

// CartStore is a member's cart persisted as a JSON array under a single key.
// Every mutation is a read-modify-write of the whole array; concurrent writers
// to the same key overwrite each other.
type CartStore struct {
	store  repository.KeyValueStore
	key    string
	logger *zap.Logger
}

func NewCartStore(store repository.KeyValueStore, key string, logger *zap.Logger) *CartStore {
	return &CartStore{store: store, key: key, logger: logger}
}

// CartKey is the storage key of the cart owned by a browser session.
func CartKey(sessionID string) string {
	return CartKeyPrefix + sessionID
}

// Lines returns the cart in insertion order. Missing or unreadable state is
// an empty cart.
func (c *CartStore) Lines(ctx context.Context) ([]domain.CartLine, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if !ok || raw == "" {
		return []domain.CartLine{}, nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		c.logger.Warn("persisted cart is corrupt, treating as empty",
			zap.String("key", c.key),
			zap.Error(err))
		return []domain.CartLine{}, nil
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return lines, nil
}

// Add puts qty units of product in the cart, merging with an existing line.
// The cart is left untouched when the result would exceed product.Stock.
func (c *CartStore) Add(ctx context.Context, product domain.Product, qty int) error {
	if product.ID == "" {
		return ErrInvalidProduct
	}
	if !product.ShopType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidShopType, product.ShopType)
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, product.Price)
	}
	if product.Stock <= 0 {
		return ErrOutOfStock
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	lines, err := c.Lines(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(lines, product.ID)
	if idx >= 0 {
		merged := lines[idx].Quantity + qty
		if merged > product.Stock {
			return fmt.Errorf("%w: %d in cart, %d requested, %d available",
				ErrStockExceeded, lines[idx].Quantity, qty, product.Stock)
		}
		lines[idx].Quantity = merged
		lines[idx].Name = product.Name
		lines[idx].Price = product.Price
		lines[idx].Stock = product.Stock
		lines[idx].ShopType = product.ShopType
	} else {
		if qty > product.Stock {
			return fmt.Errorf("%w: %d requested, %d available",
				ErrStockExceeded, qty, product.Stock)
		}
		lines = append(lines, domain.CartLine{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Quantity: qty,
			ShopType: product.ShopType,
			Stock:    product.Stock,
		})
	}

	return c.save(ctx, lines)
}

// SetQuantity overwrites a line's quantity, removing it when qty <= 0.
// The quantity is not checked against stock. Removing a line that is not in
// the cart is a no-op, like Remove.
func (c *CartStore) SetQuantity(ctx context.Context, productID string, qty int) error {
	lines, err := c.Lines(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(lines, productID)
	if idx < 0 {
		if qty <= 0 {
			return nil
		}
		return ErrLineNotFound
	}

	if qty <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
		return c.save(ctx, lines)
	}

	if qty > lines[idx].Stock {
		c.logger.Warn("cart quantity set above cached stock",
			zap.String("product_id", productID),
			zap.Int("quantity", qty),
			zap.Int("stock", lines[idx].Stock))
	}
	lines[idx].Quantity = qty
	return c.save(ctx, lines)
}

func (c *CartStore) Remove(ctx context.Context, productID string) error {
	lines, err := c.Lines(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(lines, productID)
	if idx < 0 {
		return nil
	}
	lines = append(lines[:idx], lines[idx+1:]...)
	return c.save(ctx, lines)
}

func (c *CartStore) Clear(ctx context.Context) error {
	if err := c.store.Remove(ctx, c.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (c *CartStore) Subtotal(ctx context.Context) (decimal.Decimal, error) {
	lines, err := c.Lines(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return SumLines(lines), nil
}

// Total equals Subtotal: there is no tax, shipping or discount layer.
func (c *CartStore) Total(ctx context.Context) (decimal.Decimal, error) {
	return c.Subtotal(ctx)
}

// Count is the number of units in the cart.
func (c *CartStore) Count(ctx context.Context) (int, error) {
	lines, err := c.Lines(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n, nil
}

func SumLines(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func (c *CartStore) save(ctx context.Context, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

func indexOf(lines []domain.CartLine, productID string) int {
	for i, l := range lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}
