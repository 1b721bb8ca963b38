package utils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"test.csv", "test.csv"},
		{"test file.csv", "testfile.csv"},
		{"../test.csv", "test.csv"},
		{`..\..\windows\fixtures.csv`, "fixtures.csv"},
		{"/etc/passwd", "passwd"},
		{"fixtures<script>.csv", "fixturesscript.csv"},
		{"my_fixtures-2025.csv", "my_fixtures-2025.csv"},
		{".hidden.csv", "hidden.csv"},
		{"résumé.csv", "rsum.csv"},
		{"", "fixtures.csv"},
		{"...", "fixtures.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestConvertedFileName(t *testing.T) {
	assert.Equal(t, "converted_fixtures.csv", ConvertedFileName("fixtures.csv", FormatCSV))
	assert.Equal(t, "converted_fixtures.xlsx", ConvertedFileName("fixtures.csv", FormatXLSX))
	assert.Equal(t, "converted_fixtures.csv", ConvertedFileName("fixtures.xlsx", FormatCSV))
	assert.Equal(t, "converted_Fixtures.CSV", ConvertedFileName("Fixtures.CSV", FormatCSV))
	assert.Equal(t, "converted_export.csv", ConvertedFileName("export", FormatCSV))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "out.csv", OutputPath("in/fixtures.csv", "out.csv", FormatCSV))
	assert.Equal(t, filepath.Join("in", "converted_fixtures.xlsx"), OutputPath("in/fixtures.csv", "", FormatXLSX))
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("fixtures.xlsx"))
	assert.True(t, IsWorkbook("FIXTURES.XLSX"))
	assert.False(t, IsWorkbook("fixtures.csv"))
	assert.False(t, IsWorkbook("xlsx"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "event_name\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "event_name\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, FileExists(path))
}

func TestWriteFileAtomicFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	boom := errors.New("boom")

	err := WriteFileAtomic(path, func(w io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, FileExists(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
