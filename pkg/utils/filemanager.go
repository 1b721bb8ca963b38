// =============================================================================
// Fixture Converter - File Manager Utility
// =============================================================================
//
// This module provides file utilities shared by the CLI and the HTTP server:
//   - Upload file name sanitizing
//   - Output file naming (converted_<name>)
//   - Atomic output writes
//
// =============================================================================

package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// fallbackName is used when nothing survives sanitizing.
const fallbackName = "fixtures.csv"

// =============================================================================
// FILE NAMING
// =============================================================================

// SanitizeFilename reduces an uploaded file name to a safe base name.
//
// Directory components are dropped, then every character other than a letter,
// a digit, '.', '_' or '-' is removed. Leading dots are stripped so the result
// is never a hidden file.
//
// EXAMPLE:
//
//	Input:  "../My Fixtures (2025).csv"
//	Output: "MyFixtures2025.csv"
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._-", r)) {
			b.WriteRune(r)
		}
	}

	clean := strings.TrimLeft(b.String(), ".")
	if clean == "" {
		return fallbackName
	}
	return clean
}

// ConvertedFileName names the output file for an upload.
//
// PARAMETERS:
//   - name: The uploaded file name.
//   - format: FormatCSV or FormatXLSX. The extension is set to match.
//
// RETURNS:
//   - "converted_" followed by the sanitized name.
func ConvertedFileName(name, format string) string {
	clean := SanitizeFilename(name)

	ext := "." + format
	if !strings.EqualFold(filepath.Ext(clean), ext) {
		clean = strings.TrimSuffix(clean, filepath.Ext(clean)) + ext
	}

	return "converted_" + clean
}

// OutputPath picks where the CLI writes a converted file.
//
// An explicit output path is used as given. Otherwise the file is written next
// to the input, named by ConvertedFileName.
func OutputPath(inputPath, outputPath, format string) string {
	if outputPath != "" {
		return outputPath
	}
	return filepath.Join(filepath.Dir(inputPath), ConvertedFileName(filepath.Base(inputPath), format))
}

// IsWorkbook reports whether a file name looks like an XLSX workbook.
func IsWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteFileAtomic writes a file through a temporary file in the same
// directory, so readers never see a partly written output.
//
// PARAMETERS:
//   - path: The destination path.
//   - write: Writes the file contents.
//
// RETURNS:
//   - An error if the file cannot be created, written, or renamed.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := filepath.Join(dir, "."+uuid.New().String()+".tmp")
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return errors.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Errorf("failed to flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
