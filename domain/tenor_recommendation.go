package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type TenorRecommendationInput struct {
	Principal                 decimal.Decimal `json:"principal"`
	AnnualInterestRatePercent decimal.Decimal `json:"annualInterestRatePercent"`
	MinTenorMonths            int             `json:"minTenorMonths"`
	MaxTenorMonths            int             `json:"maxTenorMonths"`
	MaxMonthlyPayment         decimal.Decimal `json:"maxMonthlyPayment"`
	Preference                string          `json:"preference"` // "minimize_interest", "minimize_payment", "balanced"
}

type TenorRecommendation struct {
	TenorMonths   int             `json:"tenorMonths"`
	FirstPayment  decimal.Decimal `json:"firstPayment"`
	LastPayment   decimal.Decimal `json:"lastPayment"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
	Score         float64         `json:"score"`
	Reason        string          `json:"reason"`
}

func (r TenorRecommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TenorMonths   int         `json:"tenorMonths"`
		FirstPayment  json.Number `json:"firstPayment"`
		LastPayment   json.Number `json:"lastPayment"`
		TotalInterest json.Number `json:"totalInterest"`
		Score         float64     `json:"score"`
		Reason        string      `json:"reason"`
	}{r.TenorMonths, Amount(r.FirstPayment), Amount(r.LastPayment), Amount(r.TotalInterest), r.Score, r.Reason})
}

type TenorRecommendationResult struct {
	RecommendedTenor int                   `json:"recommendedTenor"`
	Recommendations  []TenorRecommendation `json:"recommendations"`
}
