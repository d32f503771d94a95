package service

const (
	MaxLoanAmount   = 1_000_000_000_000 // 1 triliun
	MaxInterestRate = 1000              // 1000% per tahun
	MaxTenorMonths  = 600               // 50 tahun
	MinTenorMonths  = 1

	// MaxTenorRangeMonths bounds how many tenors one recommendation evaluates.
	MaxTenorRangeMonths = 120

	// DisplayPlaces is the rounding applied to amounts shown to members.
	DisplayPlaces = 2

	CartKeyPrefix    = "cart:"
	HandoffKeyPrefix = "checkout_order_id:"
)
