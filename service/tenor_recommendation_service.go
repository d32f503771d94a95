package service

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"member-services/domain"
)

var tenorPreferences = map[string]bool{
	"minimize_interest": true,
	"minimize_payment":  true,
	"balanced":          true,
}

// TenorRecommendationService ranks loan tenors for a member's budget. Since
// equal-principal installments decline over time, a tenor is affordable when
// its first installment fits the member's maximum monthly payment.
type TenorRecommendationService struct {
	engine *AmortizationEngine
	logger *zap.Logger
}

func NewTenorRecommendationService(engine *AmortizationEngine, logger *zap.Logger) *TenorRecommendationService {
	return &TenorRecommendationService{engine: engine, logger: logger}
}

func (s *TenorRecommendationService) RecommendTenor(
	input domain.TenorRecommendationInput,
) (domain.TenorRecommendationResult, error) {

	if input.MinTenorMonths <= 0 || input.MaxTenorMonths <= 0 {
		return domain.TenorRecommendationResult{}, fmt.Errorf("%w: tenors must be positive", ErrInvalidTenorRequest)
	}
	if input.MinTenorMonths > input.MaxTenorMonths {
		return domain.TenorRecommendationResult{}, fmt.Errorf("%w: minimum tenor is greater than maximum", ErrInvalidTenorRequest)
	}
	if input.MaxTenorMonths-input.MinTenorMonths > MaxTenorRangeMonths {
		return domain.TenorRecommendationResult{}, fmt.Errorf("%w: tenor range exceeds %d months", ErrInvalidTenorRequest, MaxTenorRangeMonths)
	}
	if !input.MaxMonthlyPayment.IsPositive() {
		return domain.TenorRecommendationResult{}, fmt.Errorf("%w: maximum monthly payment must be positive", ErrInvalidTenorRequest)
	}
	if !tenorPreferences[input.Preference] {
		return domain.TenorRecommendationResult{}, fmt.Errorf("%w: unknown preference %q", ErrInvalidTenorRequest, input.Preference)
	}

	// The extremes of the range bound the scores.
	shortest, err := s.engine.Calculate(s.scheduleInput(input, input.MinTenorMonths))
	if err != nil {
		return domain.TenorRecommendationResult{}, err
	}
	longest, err := s.engine.Calculate(s.scheduleInput(input, input.MaxTenorMonths))
	if err != nil {
		return domain.TenorRecommendationResult{}, err
	}
	bounds := scoreBounds{
		minInterest: shortest.TotalInterest.InexactFloat64(),
		maxInterest: longest.TotalInterest.InexactFloat64(),
		minPayment:  longest.FirstPayment().InexactFloat64(),
		maxPayment:  shortest.FirstPayment().InexactFloat64(),
	}

	recommendations := []domain.TenorRecommendation{}
	for tenor := input.MinTenorMonths; tenor <= input.MaxTenorMonths; tenor++ {
		schedule, err := s.engine.Calculate(s.scheduleInput(input, tenor))
		if err != nil {
			s.logger.Warn("skipping tenor", zap.Int("tenor", tenor), zap.Error(err))
			continue
		}

		first := schedule.FirstPayment()
		if first.GreaterThan(input.MaxMonthlyPayment) {
			continue
		}

		last := schedule.Rows[len(schedule.Rows)-1].TotalPayment
		recommendations = append(recommendations, domain.TenorRecommendation{
			TenorMonths:   tenor,
			FirstPayment:  first.Round(DisplayPlaces),
			LastPayment:   last.Round(DisplayPlaces),
			TotalInterest: schedule.TotalInterest.Round(DisplayPlaces),
			Score:         bounds.score(input, schedule, tenor),
			Reason:        tenorReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TenorRecommendationResult{}, ErrNoAffordableTenor
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].TenorMonths < recommendations[j].TenorMonths
	})

	return domain.TenorRecommendationResult{
		RecommendedTenor: recommendations[0].TenorMonths,
		Recommendations:  recommendations,
	}, nil
}

func (s *TenorRecommendationService) scheduleInput(
	input domain.TenorRecommendationInput,
	tenor int,
) domain.LoanScheduleInput {
	return domain.LoanScheduleInput{
		Principal:                 input.Principal,
		TenorMonths:               tenor,
		AnnualInterestRatePercent: input.AnnualInterestRatePercent,
	}
}

type scoreBounds struct {
	minInterest, maxInterest float64
	minPayment, maxPayment   float64
}

// score is on a 0-10 scale.
func (b scoreBounds) score(
	input domain.TenorRecommendationInput,
	schedule domain.LoanSchedule,
	tenor int,
) float64 {
	interestScore := 10.0
	if r := b.maxInterest - b.minInterest; r > 0 {
		interestScore = 10.0 * (1.0 - (schedule.TotalInterest.InexactFloat64()-b.minInterest)/r)
	}
	paymentScore := 10.0
	if r := b.maxPayment - b.minPayment; r > 0 {
		paymentScore = 10.0 * (1.0 - (schedule.FirstPayment().InexactFloat64()-b.minPayment)/r)
	}
	tenorScore := 10.0
	if r := input.MaxTenorMonths - input.MinTenorMonths; r > 0 {
		tenorScore = 10.0 * (1.0 - float64(tenor-input.MinTenorMonths)/float64(r))
	}

	var score float64
	switch input.Preference {
	case "minimize_interest":
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*tenorScore
	case "minimize_payment":
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*tenorScore
	case "balanced":
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*tenorScore
	}
	return math.Round(score*100) / 100
}

func tenorReason(preference string) string {
	switch preference {
	case "minimize_interest":
		return "Tenor dengan total bunga paling rendah"
	case "minimize_payment":
		return "Tenor dengan angsuran bulanan paling ringan"
	case "balanced":
		return "Keseimbangan antara angsuran bulanan dan total bunga"
	}
	return "Rekomendasi berdasarkan parameter pinjaman"
}
