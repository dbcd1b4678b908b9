// Package output writes selection results to date-stamped files on disk.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Formats accepted by NewWriter.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatBoth = "both"
)

// MetadataEntry is one line of the text file header. Order is preserved.
type MetadataEntry struct {
	Key   string
	Value string
}

// Writer persists number selections under an output directory.
type Writer struct {
	dir    string
	format string
	logger *logrus.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir, format string, logger *logrus.Logger) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	switch format {
	case FormatText, FormatCSV, FormatBoth:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Writer{dir: dir, format: format, logger: logger, now: time.Now}, nil
}

// Write saves the numbers under "<prefix>_<yyyymmdd>.txt" and ".csv"
// depending on the configured format, returning the paths written.
func (w *Writer) Write(prefix string, numbers []string, metadata []MetadataEntry) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := w.now().Format("20060102")
	var paths []string

	if w.format == FormatText || w.format == FormatBoth {
		path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.txt", prefix, stamp))
		if err := w.writeText(path, numbers, metadata); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	if w.format == FormatCSV || w.format == FormatBoth {
		path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.csv", prefix, stamp))
		if err := w.writeCSV(path, numbers); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	w.logger.WithFields(logrus.Fields{
		"numbers": len(numbers),
		"paths":   paths,
	}).Info("Results written")

	return paths, nil
}

func (w *Writer) writeText(path string, numbers []string, metadata []MetadataEntry) error {
	var builder strings.Builder
	if len(metadata) > 0 {
		for _, entry := range metadata {
			builder.WriteString(fmt.Sprintf("%s: %s\n", entry.Key, entry.Value))
		}
		builder.WriteString(strings.Repeat("=", 80) + "\n\n")
	}

	// Numbers go out in rows of ten.
	for i := 0; i < len(numbers); i += 10 {
		end := i + 10
		if end > len(numbers) {
			end = len(numbers)
		}
		builder.WriteString(strings.Join(numbers[i:end], "  ") + "\n")
	}

	if err := os.WriteFile(path, []byte(builder.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write text file: %w", err)
	}
	return nil
}

func (w *Writer) writeCSV(path string, numbers []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"Number"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, number := range numbers {
		if err := cw.Write([]string{number}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
