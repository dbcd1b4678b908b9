package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateConsoleReport formats a backtest result for terminal output
func GenerateConsoleReport(result *Result) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Run ID: %s\n", result.RunID))
	builder.WriteString(fmt.Sprintf("Distinct Draws: %d\n", result.DistinctDraws))
	builder.WriteString(fmt.Sprintf("Duration: %s\n", result.Duration))

	for _, window := range result.Windows {
		builder.WriteString(fmt.Sprintf("\nWindow Size: %d draws\n", window.WindowSize))
		builder.WriteString(strings.Repeat("-", 40) + "\n")
		builder.WriteString(fmt.Sprintf("Chi-square test: %d/%d (%.1f%%) consistent with uniform\n",
			window.Uniform, window.Uniform+window.NonUniform, window.UniformRate()*100))
		builder.WriteString("Accuracy by Top-K:\n")
		for _, acc := range window.Accuracies {
			builder.WriteString(fmt.Sprintf("  Top-%d: %d/%d = %.1f%% (baseline: %.1f%%, improvement: %+.1f%%)\n",
				acc.TopK, acc.Correct, acc.Total, acc.Rate()*100, acc.Baseline()*100, acc.Improvement()))
		}
	}

	return builder.String()
}

// GenerateCSVExport exports per-window accuracies for spreadsheets
func GenerateCSVExport(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	csv := "window_size,top_k,correct,total,rate,baseline,improvement_pct\n"
	for _, window := range result.Windows {
		for _, acc := range window.Accuracies {
			csv += fmt.Sprintf("%d,%d,%d,%d,%.4f,%.4f,%.2f\n",
				window.WindowSize, acc.TopK, acc.Correct, acc.Total,
				acc.Rate(), acc.Baseline(), acc.Improvement())
		}
	}

	return os.WriteFile(outputPath, []byte(csv), 0o644)
}
