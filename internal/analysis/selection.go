package analysis

import "sort"

// Selection policies turn digit counts or smoothed probabilities into an
// ordered set of candidate first digits. All policies return digits sorted
// ascending unless stated otherwise.

// SelectLowOccurrence picks every digit whose count is at or below the mean
// count. With no observations at all every digit qualifies. If the threshold
// somehow excludes everything, the lower half (five digits) by count is
// selected instead, ties broken by digit value ascending.
func SelectLowOccurrence(counts DigitCounts) []int {
	if counts.Total() == 0 {
		return allDigits()
	}

	threshold := counts.Mean()
	selected := make([]int, 0, 10)
	for digit, count := range counts {
		if count <= threshold {
			selected = append(selected, digit)
		}
	}

	if len(selected) == 0 {
		return bottomHalfByCount(counts)
	}
	return selected
}

// SelectPriorityZero selects exactly the digits with zero count when any
// exist, and otherwise falls back to SelectLowOccurrence.
func SelectPriorityZero(counts DigitCounts) []int {
	zero := make([]int, 0, 10)
	for digit, count := range counts {
		if count == 0 {
			zero = append(zero, digit)
		}
	}
	if len(zero) > 0 {
		return zero
	}
	return SelectLowOccurrence(counts)
}

// SelectLowestOccurrence selects every digit tied for the strict minimum
// count.
func SelectLowestOccurrence(counts DigitCounts) []int {
	min := counts.Min()
	selected := make([]int, 0, 10)
	for digit, count := range counts {
		if count == min {
			selected = append(selected, digit)
		}
	}
	return selected
}

// SelectTopKByProbability returns the k digits with the highest smoothed
// probability, ordered by probability descending with ties broken by digit
// value ascending.
func SelectTopKByProbability(probabilities [10]float64, k int) []int {
	if k <= 0 {
		return nil
	}
	if k > 10 {
		k = 10
	}

	digits := allDigits()
	sort.SliceStable(digits, func(i, j int) bool {
		if probabilities[digits[i]] != probabilities[digits[j]] {
			return probabilities[digits[i]] > probabilities[digits[j]]
		}
		return digits[i] < digits[j]
	})
	return digits[:k]
}

// Union merges two digit selections, deduplicated and sorted ascending. The
// default pipeline widens rather than narrows: a digit flagged by either
// analysis stays a candidate.
func Union(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	for _, d := range a {
		seen[d] = true
	}
	for _, d := range b {
		seen[d] = true
	}
	merged := make([]int, 0, len(seen))
	for d := range seen {
		merged = append(merged, d)
	}
	sort.Ints(merged)
	return merged
}

func allDigits() []int {
	digits := make([]int, 10)
	for i := range digits {
		digits[i] = i
	}
	return digits
}

// bottomHalfByCount keeps the original fixed count of five digits even when
// more are tied at the minimum; ties break by digit value ascending.
func bottomHalfByCount(counts DigitCounts) []int {
	digits := allDigits()
	sort.SliceStable(digits, func(i, j int) bool {
		if counts[digits[i]] != counts[digits[j]] {
			return counts[digits[i]] < counts[digits[j]]
		}
		return digits[i] < digits[j]
	})
	half := digits[:5]
	sort.Ints(half)
	return half
}
