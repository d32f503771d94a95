package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"member-services/domain"
	"member-services/repository"
)

type failingStore struct {
	repository.KeyValueStore
}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis down")
}

func newTestCart() (*CartStore, *repository.MemoryStore) {
	store := repository.NewMemoryStore(0)
	return NewCartStore(store, CartKey("session-1"), zap.NewNop()), store
}

func beras(stock int) domain.Product {
	return domain.Product{
		ID:       "P-001",
		Name:     "Beras 5kg",
		Price:    decimal.NewFromInt(75_000),
		Stock:    stock,
		ShopType: domain.ShopSembako,
	}
}

func TestCartStore_AddMergesQuantityAndRejectsOverStock(t *testing.T) {
	ctx := context.Background()
	cart, _ := newTestCart()

	require.NoError(t, cart.Add(ctx, beras(5), 1))
	require.NoError(t, cart.Add(ctx, beras(5), 1))

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	err = cart.Add(ctx, beras(5), 4)
	assert.ErrorIs(t, err, ErrStockExceeded)

	lines, _ = cart.Lines(ctx)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartStore_AddOutOfStock(t *testing.T) {
	ctx := context.Background()
	cart, store := newTestCart()

	err := cart.Add(ctx, beras(0), 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, ok, _ := store.Get(ctx, CartKey("session-1"))
	assert.False(t, ok, "nothing should be persisted")
}

func TestCartStore_AddNewLineAboveStock(t *testing.T) {
	ctx := context.Background()
	cart, _ := newTestCart()

	err := cart.Add(ctx, beras(3), 4)
	assert.ErrorIs(t, err, ErrStockExceeded)

	lines, _ := cart.Lines(ctx)
	assert.Empty(t, lines)
}

func TestCartStore_AddValidation(t *testing.T) {
	ctx := context.Background()
	cart, _ := newTestCart()

	p := beras(5)
	assert.ErrorIs(t, cart.Add(ctx, p, 0), ErrInvalidQuantity)

	p.ShopType = "furniture"
	assert.ErrorIs(t, cart.Add(ctx, p, 1), ErrInvalidShopType)

	p = beras(5)
	p.ID = ""
	assert.ErrorIs(t, cart.Add(ctx, p, 1), ErrInvalidProduct)
}

func TestCartStore_AddRejectsNegativePrice(t *testing.T) {
	ctx := context.Background()
	cart, store := newTestCart()

	p := beras(3)
	p.Price = decimal.NewFromInt(-50_000)
	assert.ErrorIs(t, cart.Add(ctx, p, 2), ErrInvalidPrice)

	_, ok, err := store.Get(ctx, CartKey("session-1"))
	require.NoError(t, err)
	assert.False(t, ok, "rejected add must not write the cart")

	subtotal, err := cart.Subtotal(ctx)
	require.NoError(t, err)
	assert.True(t, subtotal.IsZero())

	p.Price = decimal.Zero
	require.NoError(t, cart.Add(ctx, p, 1))
}

func TestCartStore_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	cart, _ := newTestCart()

	tv := domain.Product{ID: "E-10", Name: "TV 32in", Price: decimal.NewFromInt(2_100_000), Stock: 2, ShopType: domain.ShopElektronik}
	pulsa := domain.Product{ID: "A-7", Name: "Pulsa 50rb", Price: decimal.NewFromInt(51_000), Stock: 100, ShopType: domain.ShopAplikasi}

	require.NoError(t, cart.Add(ctx, tv, 1))
	require.NoError(t, cart.Add(ctx, pulsa, 2))
	require.NoError(t, cart.Add(ctx, beras(5), 1))
	require.NoError(t, cart.Add(ctx, tv, 1))

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"E-10", "A-7", "P-001"}, []string{lines[0].ID, lines[1].ID, lines[2].ID})
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartStore_SetQuantity(t *testing.T) {
	ctx := context.Background()
	cart, _ := newTestCart()
	require.NoError(t, cart.Add(ctx, beras(5), 1))

	require.NoError(t, cart.SetQuantity(ctx, "P-001", 3))
	lines, _ := cart.Lines(ctx)
	assert.Equal(t, 3, lines[0].Quantity)

	require.NoError(t, cart.SetQuantity(ctx, "P-001", 0))
	lines, _ = cart.Lines(ctx)
	assert.Empty(t, lines)

	assert.ErrorIs(t, cart.SetQuantity(ctx, "P-001", 1), ErrLineNotFound)
}

func TestCartStore_SetQuantityZeroOnAbsentLineIsNoop(t *testing.T) {
	ctx := context.Background()
	cart, _ := newTestCart()
	require.NoError(t, cart.Add(ctx, beras(5), 2))

	require.NoError(t, cart.SetQuantity(ctx, "X-404", 0))
	require.NoError(t, cart.SetQuantity(ctx, "X-404", -1))

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartStore_SetQuantityAboveStockIsAllowedButLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	cart := NewCartStore(repository.NewMemoryStore(0), CartKey("s"), zap.New(core))
	require.NoError(t, cart.Add(ctx, beras(5), 1))

	require.NoError(t, cart.SetQuantity(ctx, "P-001", 9))

	lines, _ := cart.Lines(ctx)
	assert.Equal(t, 9, lines[0].Quantity)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(9), logs.All()[0].ContextMap()["quantity"])
}

func TestCartStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	cart, store := newTestCart()
	require.NoError(t, cart.Add(ctx, beras(5), 1))
	require.NoError(t, cart.Add(ctx, domain.Product{ID: "P-002", Name: "Minyak 2L", Price: decimal.NewFromInt(36_000), Stock: 10, ShopType: domain.ShopSembako}, 2))

	require.NoError(t, cart.Remove(ctx, "P-001"))
	require.NoError(t, cart.Remove(ctx, "does-not-exist"))
	lines, _ := cart.Lines(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, "P-002", lines[0].ID)

	require.NoError(t, cart.Clear(ctx))
	_, ok, _ := store.Get(ctx, CartKey("session-1"))
	assert.False(t, ok)
	lines, _ = cart.Lines(ctx)
	assert.Empty(t, lines)
}

func TestCartStore_TotalsAndCount(t *testing.T) {
	ctx := context.Background()
	cart, _ := newTestCart()
	require.NoError(t, cart.Add(ctx, beras(5), 2))
	require.NoError(t, cart.Add(ctx, domain.Product{ID: "P-002", Name: "Gula 1kg", Price: decimal.RequireFromString("17500.50"), Stock: 10, ShopType: domain.ShopSembako}, 2))

	subtotal, err := cart.Subtotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "185001", subtotal.String())

	total, err := cart.Total(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(subtotal))

	count, err := cart.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestCartStore_CorruptStateReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	store := repository.NewMemoryStore(0)
	require.NoError(t, store.Set(ctx, CartKey("s"), "{not json"))
	cart := NewCartStore(store, CartKey("s"), zap.New(core))

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 1, logs.FilterMessage("persisted cart is corrupt, treating as empty").Len())

	// the next write replaces the corrupt value
	require.NoError(t, cart.Add(ctx, beras(5), 1))
	lines, _ = cart.Lines(ctx)
	assert.Len(t, lines, 1)
}

func TestCartStore_NullStateReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore(0)
	require.NoError(t, store.Set(ctx, CartKey("s"), "null"))
	cart := NewCartStore(store, CartKey("s"), zap.NewNop())

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestCartStore_StoreFailureIsReturned(t *testing.T) {
	cart := NewCartStore(failingStore{}, CartKey("s"), zap.NewNop())

	_, err := cart.Lines(context.Background())
	assert.ErrorContains(t, err, "redis down")
}

func TestCartStore_PersistedShape(t *testing.T) {
	ctx := context.Background()
	cart, store := newTestCart()
	require.NoError(t, cart.Add(ctx, beras(5), 1))

	raw, ok, err := store.Get(ctx, CartKey("session-1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t,
		`[{"id":"P-001","name":"Beras 5kg","price":75000,"quantity":1,"shopType":"sembako","stock":5}]`,
		raw)
}
