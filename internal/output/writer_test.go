package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestWriterRejectsUnknownFormat(t *testing.T) {
	_, err := NewWriter(t.TempDir(), "xml", testLogger())
	require.Error(t, err)
}

func TestWriterWritesBothFormats(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, FormatBoth, testLogger())
	require.NoError(t, err)
	writer.now = func() time.Time { return time.Date(2025, 4, 5, 12, 0, 0, 0, time.UTC) }

	numbers := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		numbers = append(numbers, "300"+string(rune('0'+i%10)))
	}
	metadata := []MetadataEntry{
		{Key: "Generated on", Value: "05 Apr 2025"},
		{Key: "Selected first digits", Value: "3"},
	}

	paths, err := writer.Write("filtered_first_digit", numbers, metadata)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(dir, "filtered_first_digit_20250405.txt"), paths[0])
	assert.Equal(t, filepath.Join(dir, "filtered_first_digit_20250405.csv"), paths[1])

	text, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(text), "\n"), "\n")
	assert.Equal(t, "Generated on: 05 Apr 2025", lines[0])
	assert.Contains(t, lines, strings.Repeat("=", 80))
	// Twelve numbers wrap into a row of ten and a row of two.
	last := lines[len(lines)-1]
	assert.Len(t, strings.Fields(last), 2)

	csvData, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	csvLines := strings.Split(strings.TrimRight(string(csvData), "\n"), "\n")
	assert.Equal(t, "Number", csvLines[0])
	assert.Len(t, csvLines, 13)
}

func TestWriterTextOnly(t *testing.T) {
	writer, err := NewWriter(t.TempDir(), FormatText, testLogger())
	require.NoError(t, err)

	paths, err := writer.Write("sel", []string{"1234"}, nil)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, strings.HasSuffix(paths[0], ".txt"))
}
