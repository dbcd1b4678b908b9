// Package filter expands selected first digits into concrete 4-digit numbers
// and removes candidates disqualified by recent winning history.
package filter

import (
	"fmt"
	"sort"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// Generate expands each selected first digit into its full thousand-block of
// zero-padded 4-digit numbers, sorted lexicographically.
func Generate(digits []int) []string {
	seen := make(map[int]bool, len(digits))
	numbers := make([]string, 0, len(digits)*1000)
	for _, digit := range digits {
		if digit < 0 || digit > 9 || seen[digit] {
			continue
		}
		seen[digit] = true
		start := digit * 1000
		for n := start; n <= start+999; n++ {
			numbers = append(numbers, fmt.Sprintf("%04d", n))
		}
	}
	sort.Strings(numbers)
	return numbers
}

// Result reports the outcome of a ByHistory run. Each exclusion list is
// relative to the candidate set as of that filtering step, and every slice is
// sorted lexicographically.
type Result struct {
	Kept               []string `json:"kept"`
	ExcludedSixMonths  []string `json:"excluded_6mo"`
	ExcludedTopThreeYr []string `json:"excluded_top3_1yr"`
	ExcludedRepeatedYr []string `json:"excluded_multi_1yr"`
}

// ByHistory applies the three exclusion rules in fixed order:
//
//  1. drop candidates that won in any category in the past six months
//  2. drop remaining candidates that won a top-3 prize in the past year
//  3. drop remaining candidates that won more than once in the past year
//
// An empty one-year history turns steps 2 and 3 into no-ops.
func ByHistory(candidates []string, sixMonths, oneYear []models.Record) Result {
	remaining := make(map[string]bool, len(candidates))
	for _, number := range candidates {
		remaining[number] = true
	}

	sixMonthNumbers := numberSet(sixMonths, nil)
	excludedSixMonths := removeMatching(remaining, func(n string) bool {
		return sixMonthNumbers[n]
	})

	var excludedTopThree, excludedRepeated []string
	if len(oneYear) > 0 {
		topThreeNumbers := numberSet(oneYear, models.TopThreeCategories)
		excludedTopThree = removeMatching(remaining, func(n string) bool {
			return topThreeNumbers[n]
		})

		occurrences := make(map[string]int, len(oneYear))
		for _, rec := range oneYear {
			occurrences[rec.Number]++
		}
		excludedRepeated = removeMatching(remaining, func(n string) bool {
			return occurrences[n] > 1
		})
	}

	kept := make([]string, 0, len(remaining))
	for number := range remaining {
		kept = append(kept, number)
	}
	sort.Strings(kept)

	return Result{
		Kept:               kept,
		ExcludedSixMonths:  excludedSixMonths,
		ExcludedTopThreeYr: sortedOrEmpty(excludedTopThree),
		ExcludedRepeatedYr: sortedOrEmpty(excludedRepeated),
	}
}

func numberSet(records []models.Record, categories []models.PrizeCategory) map[string]bool {
	var allowed map[models.PrizeCategory]bool
	if categories != nil {
		allowed = make(map[models.PrizeCategory]bool, len(categories))
		for _, c := range categories {
			allowed[c] = true
		}
	}

	set := make(map[string]bool, len(records))
	for _, rec := range records {
		if allowed != nil && !allowed[rec.Category] {
			continue
		}
		set[rec.Number] = true
	}
	return set
}

// removeMatching deletes matching candidates from the running set and returns
// them sorted.
func removeMatching(remaining map[string]bool, match func(string) bool) []string {
	var excluded []string
	for number := range remaining {
		if match(number) {
			excluded = append(excluded, number)
		}
	}
	for _, number := range excluded {
		delete(remaining, number)
	}
	sort.Strings(excluded)
	return excluded
}

func sortedOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
