package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"member-services/domain"
)

var (
	hundred     = decimal.NewFromInt(100)
	twelve      = decimal.NewFromInt(12)
	oneCurrency = decimal.NewFromInt(1)
)

// AmortizationEngine builds declining-balance schedules with a constant
// principal portion. It holds no state and is safe for concurrent use.
type AmortizationEngine struct{}

func NewAmortizationEngine() *AmortizationEngine {
	return &AmortizationEngine{}
}

// NewLoanScheduleInput converts raw form values, rejecting NaN and infinities.
func NewLoanScheduleInput(
	principal float64,
	tenorMonths int,
	annualRatePercent float64,
) (domain.LoanScheduleInput, error) {
	for _, v := range []float64{principal, annualRatePercent} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.LoanScheduleInput{}, fmt.Errorf("%w: value is not a number", ErrInvalidScheduleInput)
		}
	}
	return domain.LoanScheduleInput{
		Principal:                 decimal.NewFromFloat(principal),
		TenorMonths:               tenorMonths,
		AnnualInterestRatePercent: decimal.NewFromFloat(annualRatePercent),
	}, nil
}

func validateScheduleInput(input domain.LoanScheduleInput) error {
	if !input.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive", ErrInvalidScheduleInput)
	}
	if input.Principal.GreaterThan(decimal.NewFromInt(MaxLoanAmount)) {
		return fmt.Errorf("%w: principal exceeds %d", ErrInvalidScheduleInput, int64(MaxLoanAmount))
	}
	if input.TenorMonths < MinTenorMonths {
		return fmt.Errorf("%w: tenor must be positive", ErrInvalidScheduleInput)
	}
	if input.TenorMonths > MaxTenorMonths {
		return fmt.Errorf("%w: tenor exceeds %d months", ErrInvalidScheduleInput, MaxTenorMonths)
	}
	if input.AnnualInterestRatePercent.IsNegative() {
		return fmt.Errorf("%w: interest rate is negative", ErrInvalidScheduleInput)
	}
	if input.AnnualInterestRatePercent.GreaterThan(decimal.NewFromInt(MaxInterestRate)) {
		return fmt.Errorf("%w: interest rate exceeds %d%%", ErrInvalidScheduleInput, MaxInterestRate)
	}
	return nil
}

// Calculate returns one row per month. Interest is charged on the balance
// left after the previous period; a balance below one currency unit is
// treated as paid off.
func (e *AmortizationEngine) Calculate(
	input domain.LoanScheduleInput,
) (domain.LoanSchedule, error) {

	if err := validateScheduleInput(input); err != nil {
		return domain.LoanSchedule{}, err
	}

	monthlyRate := input.AnnualInterestRatePercent.Div(hundred).Div(twelve)
	principalPart := input.Principal.Div(decimal.NewFromInt(int64(input.TenorMonths)))

	schedule := domain.LoanSchedule{
		Rows:           make([]domain.InstallmentRow, 0, input.TenorMonths),
		TotalPrincipal: decimal.Zero,
		TotalInterest:  decimal.Zero,
		TotalPayment:   decimal.Zero,
	}

	balance := input.Principal
	for period := 1; period <= input.TenorMonths; period++ {
		interest := balance.Mul(monthlyRate)
		payment := principalPart.Add(interest)

		balance = balance.Sub(principalPart)
		if balance.LessThan(oneCurrency) {
			balance = decimal.Zero
		}

		schedule.Rows = append(schedule.Rows, domain.InstallmentRow{
			Period:             period,
			PrincipalComponent: principalPart,
			InterestComponent:  interest,
			TotalPayment:       payment,
			RemainingBalance:   balance,
		})
		schedule.TotalPrincipal = schedule.TotalPrincipal.Add(principalPart)
		schedule.TotalInterest = schedule.TotalInterest.Add(interest)
		schedule.TotalPayment = schedule.TotalPayment.Add(payment)
	}

	return schedule, nil
}
