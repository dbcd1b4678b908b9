package analysis

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// UniformityAlpha is the significance threshold for the chi-square test.
// p-values above it mean the digit distribution is consistent with uniform.
const UniformityAlpha = 0.05

const degreesOfFreedom = 9

// ChiSquareResult summarizes a goodness-of-fit test of digit counts against
// the uniform distribution.
type ChiSquareResult struct {
	Statistic        float64 `json:"statistic"`
	PValue           float64 `json:"p_value"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	ExpectedPerDigit float64 `json:"expected_per_digit"`
	IsUniform        bool    `json:"is_uniform"`
}

// ChiSquareUniform tests whether the observed digit counts deviate from a
// uniform distribution over the ten digits. A zero total is defined as the
// degenerate uniform case rather than a division by zero.
func ChiSquareUniform(counts DigitCounts) ChiSquareResult {
	total := counts.Total()
	if total == 0 {
		return ChiSquareResult{
			Statistic:        0,
			PValue:           1.0,
			DegreesOfFreedom: degreesOfFreedom,
			ExpectedPerDigit: 0,
			IsUniform:        true,
		}
	}

	expected := total / 10.0
	statistic := 0.0
	for _, observed := range counts {
		diff := observed - expected
		statistic += diff * diff / expected
	}

	dist := distuv.ChiSquared{K: degreesOfFreedom}
	pValue := dist.Survival(statistic)

	return ChiSquareResult{
		Statistic:        statistic,
		PValue:           pValue,
		DegreesOfFreedom: degreesOfFreedom,
		ExpectedPerDigit: expected,
		IsUniform:        pValue > UniformityAlpha,
	}
}
