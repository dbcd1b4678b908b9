package simulate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// LoadNumbersCSV reads a filtered-numbers CSV as written by the output
// package: a "Number" header followed by one four digit number per row.
func LoadNumbersCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open numbers file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse numbers file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("numbers file %s is empty", path)
	}

	start := 0
	if strings.EqualFold(strings.TrimSpace(rows[0][0]), "Number") {
		start = 1
	}

	numbers := make([]string, 0, len(rows)-start)
	for _, row := range rows[start:] {
		if len(row) == 0 {
			continue
		}
		number := strings.TrimSpace(row[0])
		if number == "" {
			continue
		}
		// Sheets tools strip leading zeroes, restore them.
		for len(number) < 4 {
			number = "0" + number
		}
		if !models.ValidNumber(number) {
			return nil, fmt.Errorf("%w: %q in %s", models.ErrMalformedRecord, row[0], path)
		}
		numbers = append(numbers, number)
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("numbers file %s has no numbers", path)
	}
	return numbers, nil
}

// FindLatestCSV returns the most recently modified file in dir matching the
// glob pattern, e.g. "filtered_first_digit_*.csv".
func FindLatestCSV(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("bad file pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no files matching %q in %s", models.ErrNotFound, pattern, dir)
	}

	var latest string
	var latestMod int64
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().UnixNano() > latestMod {
			latest = match
			latestMod = info.ModTime().UnixNano()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%w: no readable files matching %q in %s", models.ErrNotFound, pattern, dir)
	}
	return latest, nil
}
