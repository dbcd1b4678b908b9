// Package simulate estimates the cost and payout of buying every number in a
// filtered selection, across prize permutations.
package simulate

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// Prize amounts for a one dollar big bet, per the Singapore Pools 4D prize
// structure.
var PrizeAmounts = map[models.PrizeCategory]decimal.Decimal{
	models.PrizeFirst:       decimal.NewFromInt(2000),
	models.PrizeSecond:      decimal.NewFromInt(1000),
	models.PrizeThird:       decimal.NewFromInt(400),
	models.PrizeStarter:     decimal.NewFromInt(250),
	models.PrizeConsolation: decimal.NewFromInt(60),
}

// CostPerNumber is the stake for one number at the standard bet.
var CostPerNumber = decimal.NewFromFloat(1.0)

// There are ten starter and ten consolation prizes per draw.
const (
	MaxStarters     = 10
	MaxConsolations = 10
)

// Outcome describes one combination of prizes hit by the bought numbers.
type Outcome struct {
	FirstPrize   int
	SecondPrize  int
	ThirdPrize   int
	Starters     int
	Consolations int
}

// Scenario is the financial result of an Outcome over a fixed set of numbers.
type Scenario struct {
	Outcome       Outcome
	TotalNumbers  int
	TotalCost     decimal.Decimal
	TotalWinnings decimal.Decimal
	NetProfit     decimal.Decimal
	ROIPercent    decimal.Decimal
}

// Calculate prices a single outcome over the given numbers.
func Calculate(numbers []string, outcome Outcome) Scenario {
	totalCost := CostPerNumber.Mul(decimal.NewFromInt(int64(len(numbers))))

	winnings := decimal.Zero
	winnings = winnings.Add(PrizeAmounts[models.PrizeFirst].Mul(decimal.NewFromInt(int64(outcome.FirstPrize))))
	winnings = winnings.Add(PrizeAmounts[models.PrizeSecond].Mul(decimal.NewFromInt(int64(outcome.SecondPrize))))
	winnings = winnings.Add(PrizeAmounts[models.PrizeThird].Mul(decimal.NewFromInt(int64(outcome.ThirdPrize))))
	winnings = winnings.Add(PrizeAmounts[models.PrizeStarter].Mul(decimal.NewFromInt(int64(outcome.Starters))))
	winnings = winnings.Add(PrizeAmounts[models.PrizeConsolation].Mul(decimal.NewFromInt(int64(outcome.Consolations))))

	netProfit := winnings.Sub(totalCost)
	roi := decimal.Zero
	if totalCost.IsPositive() {
		roi = netProfit.Div(totalCost).Mul(decimal.NewFromInt(100))
	}

	return Scenario{
		Outcome:       outcome,
		TotalNumbers:  len(numbers),
		TotalCost:     totalCost,
		TotalWinnings: winnings,
		NetProfit:     netProfit,
		ROIPercent:    roi,
	}
}

// TopThreeScenarios enumerates the eight hit-or-miss combinations of the top
// three prizes, with no starters or consolations.
func TopThreeScenarios(numbers []string) []Scenario {
	scenarios := make([]Scenario, 0, 8)
	for _, first := range []int{0, 1} {
		for _, second := range []int{0, 1} {
			for _, third := range []int{0, 1} {
				scenarios = append(scenarios, Calculate(numbers, Outcome{
					FirstPrize:  first,
					SecondPrize: second,
					ThirdPrize:  third,
				}))
			}
		}
	}
	return scenarios
}

// CompleteScenarios enumerates every prize permutation: 2x2x2 top-three hits
// times 11x11 starter and consolation counts, 968 scenarios in total.
func CompleteScenarios(numbers []string) []Scenario {
	scenarios := make([]Scenario, 0, 2*2*2*(MaxStarters+1)*(MaxConsolations+1))
	for _, first := range []int{0, 1} {
		for _, second := range []int{0, 1} {
			for _, third := range []int{0, 1} {
				for starters := 0; starters <= MaxStarters; starters++ {
					for consolations := 0; consolations <= MaxConsolations; consolations++ {
						scenarios = append(scenarios, Calculate(numbers, Outcome{
							FirstPrize:   first,
							SecondPrize:  second,
							ThirdPrize:   third,
							Starters:     starters,
							Consolations: consolations,
						}))
					}
				}
			}
		}
	}
	return scenarios
}

// Summary condenses a scenario set into the extremes a bettor cares about.
type Summary struct {
	TotalNumbers  int
	TotalCost     decimal.Decimal
	BestCase      Scenario
	WorstCase     Scenario
	BreakEvenHits int
}

// Summarize returns the best and worst scenarios and how many scenarios at
// least break even.
func Summarize(scenarios []Scenario) (Summary, error) {
	if len(scenarios) == 0 {
		return Summary{}, fmt.Errorf("no scenarios to summarize")
	}

	sorted := append([]Scenario(nil), scenarios...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].NetProfit.LessThan(sorted[j].NetProfit)
	})

	breakEven := 0
	for _, s := range sorted {
		if !s.NetProfit.IsNegative() {
			breakEven++
		}
	}

	return Summary{
		TotalNumbers:  sorted[0].TotalNumbers,
		TotalCost:     sorted[0].TotalCost,
		BestCase:      sorted[len(sorted)-1],
		WorstCase:     sorted[0],
		BreakEvenHits: breakEven,
	}, nil
}
