package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amount renders d as a bare JSON number with full precision. Decoding back
// into decimal.Decimal accepts both numbers and quoted strings.
func Amount(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
