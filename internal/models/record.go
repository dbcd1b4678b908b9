// Package models defines the core domain types shared across the analyzer.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NumberLength is the fixed length of a prize number.
const NumberLength = 4

// PrizeCategory identifies which prize tier a record belongs to.
type PrizeCategory int

// Prize categories in draw order. First, Second and Third are the "top 3"
// tiers; Starter and Consolation carry up to ten numbers each per draw.
const (
	PrizeFirst PrizeCategory = iota
	PrizeSecond
	PrizeThird
	PrizeStarter
	PrizeConsolation
)

var categoryTags = [...]string{
	PrizeFirst:       "first",
	PrizeSecond:      "second",
	PrizeThird:       "third",
	PrizeStarter:     "starter",
	PrizeConsolation: "consolation",
}

// TopThreeCategories lists the categories used by the top-3 analysis and the
// one-year top-3 exclusion filter.
var TopThreeCategories = []PrizeCategory{PrizeFirst, PrizeSecond, PrizeThird}

// String returns the stable serialization tag for the category.
func (c PrizeCategory) String() string {
	if c < 0 || int(c) >= len(categoryTags) {
		return fmt.Sprintf("unknown(%d)", int(c))
	}
	return categoryTags[c]
}

// IsTopThree reports whether the category is one of the three main prizes.
func (c PrizeCategory) IsTopThree() bool {
	return c == PrizeFirst || c == PrizeSecond || c == PrizeThird
}

// ParsePrizeCategory converts a serialization tag back into a PrizeCategory.
func ParsePrizeCategory(tag string) (PrizeCategory, error) {
	for i, t := range categoryTags {
		if t == tag {
			return PrizeCategory(i), nil
		}
	}
	return 0, fmt.Errorf("unknown prize category %q", tag)
}

// MarshalJSON encodes the category as its stable tag.
func (c PrizeCategory) MarshalJSON() ([]byte, error) {
	if c < 0 || int(c) >= len(categoryTags) {
		return nil, fmt.Errorf("cannot encode prize category %d", int(c))
	}
	return json.Marshal(categoryTags[c])
}

// UnmarshalJSON decodes a category from its stable tag.
func (c *PrizeCategory) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	parsed, err := ParsePrizeCategory(tag)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Record is a single (date, prize number, category) observation. Records are
// immutable once created; the leading digit of Number is the unit of all
// downstream analysis.
type Record struct {
	Date     time.Time     `json:"date"`
	Number   string        `json:"number"`
	Category PrizeCategory `json:"category"`
}

// NewRecord validates the raw fields and builds a Record. The date is
// truncated to UTC midnight; the number must be exactly four digits with
// leading zeros preserved.
func NewRecord(date time.Time, number string, category PrizeCategory) (Record, error) {
	number = strings.TrimSpace(number)
	if !validNumber(number) {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedRecord, number)
	}
	return Record{
		Date:     DateOnly(date),
		Number:   number,
		Category: category,
	}, nil
}

// FirstDigit returns the leading digit of the prize number. The second return
// value is false when the number is malformed; callers skip such records.
func (r Record) FirstDigit() (int, bool) {
	if len(r.Number) == 0 {
		return 0, false
	}
	ch := r.Number[0]
	if ch < '0' || ch > '9' {
		return 0, false
	}
	return int(ch - '0'), true
}

// Valid reports whether the record satisfies the prize number invariant.
func (r Record) Valid() bool {
	return validNumber(r.Number)
}

// ValidNumber reports whether number is exactly four ASCII digits.
func ValidNumber(number string) bool {
	return validNumber(number)
}

func validNumber(number string) bool {
	if len(number) != NumberLength {
		return false
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}
	return true
}

// DateOnly truncates a timestamp to UTC midnight. All record dates and cache
// watermarks are compared at day granularity.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
