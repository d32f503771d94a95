package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type ShopType string

const (
	ShopSembako    ShopType = "sembako"
	ShopElektronik ShopType = "elektronik"
	ShopAplikasi   ShopType = "aplikasi"
)

func (t ShopType) Valid() bool {
	switch t {
	case ShopSembako, ShopElektronik, ShopAplikasi:
		return true
	}
	return false
}

// Product is the storefront view of an item at the moment it is added to the cart.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	ShopType ShopType        `json:"shopType"`
}

// CartLine is one persisted cart entry. Stock is the snapshot taken when the
// product was last added; the server-side stock is authoritative.
type CartLine struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ShopType ShopType        `json:"shopType"`
	Stock    int             `json:"stock"`
}

// MarshalJSON writes the price as a JSON number so the persisted cart is
// [{id, name, price, quantity, shopType, stock}] with numeric amounts.
func (l CartLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string      `json:"id"`
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
		ShopType ShopType    `json:"shopType"`
		Stock    int         `json:"stock"`
	}{l.ID, l.Name, Amount(l.Price), l.Quantity, l.ShopType, l.Stock})
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest is the body sent to the order-creation endpoint.
type CheckoutRequest struct {
	Items         []CheckoutItem `json:"items"`
	PaymentMethod *string        `json:"paymentMethod"`
	ShopType      ShopType       `json:"shopType"`
}
