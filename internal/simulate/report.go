package simulate

import (
	"fmt"
	"strings"
)

// FormatReport renders a scenario table and summary as plain text.
func FormatReport(scenarios []Scenario) (string, error) {
	summary, err := Summarize(scenarios)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	rule := strings.Repeat("=", 100)

	b.WriteString(rule + "\n")
	b.WriteString("WINNING SCENARIO PERMUTATIONS\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Numbers bought: %d  Total cost: $%s\n\n", summary.TotalNumbers, summary.TotalCost.StringFixed(2))

	fmt.Fprintf(&b, "%-5s %-4s %-4s %-4s %-6s %-7s %12s %14s %9s\n",
		"#", "1st", "2nd", "3rd", "Start", "Consol", "Winnings", "Net Profit", "ROI %")
	b.WriteString(strings.Repeat("-", 100) + "\n")
	for i, s := range scenarios {
		fmt.Fprintf(&b, "%-5d %-4d %-4d %-4d %-6d %-7d %12s %14s %8s%%\n",
			i+1,
			s.Outcome.FirstPrize, s.Outcome.SecondPrize, s.Outcome.ThirdPrize,
			s.Outcome.Starters, s.Outcome.Consolations,
			"$"+s.TotalWinnings.StringFixed(2),
			"$"+s.NetProfit.StringFixed(2),
			s.ROIPercent.StringFixed(2))
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString("SUMMARY\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Best case:  net $%s (ROI %s%%)\n", summary.BestCase.NetProfit.StringFixed(2), summary.BestCase.ROIPercent.StringFixed(2))
	fmt.Fprintf(&b, "Worst case: net $%s (ROI %s%%)\n", summary.WorstCase.NetProfit.StringFixed(2), summary.WorstCase.ROIPercent.StringFixed(2))
	fmt.Fprintf(&b, "Scenarios at or above break even: %d of %d\n", summary.BreakEvenHits, len(scenarios))

	return b.String(), nil
}
