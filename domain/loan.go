package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LoanScheduleInput is one amortization request. Rates are annual percentages.
type LoanScheduleInput struct {
	Principal                 decimal.Decimal `json:"principal"`
	TenorMonths               int             `json:"tenorMonths"`
	AnnualInterestRatePercent decimal.Decimal `json:"annualInterestRatePercent"`
}

type InstallmentRow struct {
	Period             int             `json:"period"`
	PrincipalComponent decimal.Decimal `json:"principalComponent"`
	InterestComponent  decimal.Decimal `json:"interestComponent"`
	TotalPayment       decimal.Decimal `json:"totalPayment"`
	RemainingBalance   decimal.Decimal `json:"remainingBalance"`
}

func (r InstallmentRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Period             int         `json:"period"`
		PrincipalComponent json.Number `json:"principalComponent"`
		InterestComponent  json.Number `json:"interestComponent"`
		TotalPayment       json.Number `json:"totalPayment"`
		RemainingBalance   json.Number `json:"remainingBalance"`
	}{
		r.Period,
		Amount(r.PrincipalComponent),
		Amount(r.InterestComponent),
		Amount(r.TotalPayment),
		Amount(r.RemainingBalance),
	})
}

// LoanSchedule is the full equal-principal repayment plan, rows ordered by period.
type LoanSchedule struct {
	Rows           []InstallmentRow `json:"rows"`
	TotalPrincipal decimal.Decimal  `json:"totalPrincipal"`
	TotalInterest  decimal.Decimal  `json:"totalInterest"`
	TotalPayment   decimal.Decimal  `json:"totalPayment"`
}

func (s LoanSchedule) MarshalJSON() ([]byte, error) {
	rows := s.Rows
	if rows == nil {
		rows = []InstallmentRow{}
	}
	return json.Marshal(struct {
		Rows           []InstallmentRow `json:"rows"`
		TotalPrincipal json.Number      `json:"totalPrincipal"`
		TotalInterest  json.Number      `json:"totalInterest"`
		TotalPayment   json.Number      `json:"totalPayment"`
	}{rows, Amount(s.TotalPrincipal), Amount(s.TotalInterest), Amount(s.TotalPayment)})
}

// Rounded returns a copy with every amount rounded to places decimals.
// Only meant for display; the schedule itself keeps full precision.
func (s LoanSchedule) Rounded(places int32) LoanSchedule {
	rows := make([]InstallmentRow, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = InstallmentRow{
			Period:             r.Period,
			PrincipalComponent: r.PrincipalComponent.Round(places),
			InterestComponent:  r.InterestComponent.Round(places),
			TotalPayment:       r.TotalPayment.Round(places),
			RemainingBalance:   r.RemainingBalance.Round(places),
		}
	}
	return LoanSchedule{
		Rows:           rows,
		TotalPrincipal: s.TotalPrincipal.Round(places),
		TotalInterest:  s.TotalInterest.Round(places),
		TotalPayment:   s.TotalPayment.Round(places),
	}
}

// FirstPayment is the largest installment of an equal-principal schedule.
func (s LoanSchedule) FirstPayment() decimal.Decimal {
	if len(s.Rows) == 0 {
		return decimal.Zero
	}
	return s.Rows[0].TotalPayment
}
