// =============================================================================
// Fixture Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which converts a fixture export on
// disk without going through the web service.
//
// COMMAND USAGE:
//   fixtures convert INPUT [flags]
//
// FLAGS:
//   -o, --output     : Output path (default: converted_<input> next to input)
//   --access-group   : Calendar access group (default: conversion.default_access_group)
//   --duration       : Game duration in minutes
//   --comments, --attendance, --duty-roster, --ticketing : Event flags
//   --grade          : Convert only this grade (repeatable)
//   --strict         : Fail on rows with invalid dates or times
//   --format         : Output format, csv or xlsx
//
// PROCESSING PIPELINE:
//   1. Read the input (CSV, or XLSX by extension)
//   2. Convert every row, or only the requested grades
//   3. Write the output atomically
//   4. Print a summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/wscc/fixture-converter/internal/config"
	"github.com/wscc/fixture-converter/internal/converter"
	"github.com/wscc/fixture-converter/internal/csvparser"
	"github.com/wscc/fixture-converter/internal/types"
	"github.com/wscc/fixture-converter/internal/validation"
	"github.com/wscc/fixture-converter/internal/workbook"
	"github.com/wscc/fixture-converter/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// convertOptions holds the resolved inputs of one conversion.
type convertOptions struct {
	output      string
	accessGroup string
	format      string
	grades      []string
	strict      bool
	settings    types.Settings
}

// Flag values. Settings flags only apply when set explicitly; otherwise the
// configured defaults are used.
var (
	convertOutput      string
	convertAccessGroup string
	convertFormat      string
	convertGrades      []string
	convertStrict      bool
	convertDuration    int
	convertComments    bool
	convertAttendance  bool
	convertDutyRoster  bool
	convertTicketing   bool
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert INPUT",
	Short: "Convert a fixture export to a calendar-import file",
	Long: `The convert command reads a fixture export (CSV, or XLSX when the file name
ends in .xlsx) and writes the calendar-import file.

Rows with dates or times that cannot be read are still converted and reported
as warnings. With --strict (or conversion.strict in the config file) such rows
fail the conversion instead and nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveConvertOptions(cmd, appConfig)
		if err != nil {
			return err
		}
		return runConvert(cmd.Context(), appConfig, args[0], opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.StringVarP(&convertOutput, "output", "o", "", "Output path (default: converted_<input> next to the input)")
	flags.StringVar(&convertAccessGroup, "access-group", "", "Calendar access group (default from config)")
	flags.StringVar(&convertFormat, "format", "", "Output format: csv or xlsx (default: from output extension, else csv)")
	flags.StringArrayVar(&convertGrades, "grade", nil, "Convert only this grade (repeatable)")
	flags.BoolVar(&convertStrict, "strict", false, "Fail on rows with invalid dates or times")
	flags.IntVar(&convertDuration, "duration", types.DefaultGameDuration, "Game duration in minutes")
	flags.BoolVar(&convertComments, "comments", false, "Enable comments on events")
	flags.BoolVar(&convertAttendance, "attendance", false, "Enable attendance tracking on events")
	flags.BoolVar(&convertDutyRoster, "duty-roster", false, "Enable the duty roster on events")
	flags.BoolVar(&convertTicketing, "ticketing", false, "Enable ticketing on events")
}

// resolveConvertOptions merges explicitly set flags over the configuration.
func resolveConvertOptions(cmd *cobra.Command, cfg *config.MainConfig) (convertOptions, error) {
	flags := cmd.Flags()

	opts := convertOptions{
		output:      convertOutput,
		accessGroup: convertAccessGroup,
		grades:      convertGrades,
		strict:      convertStrict || cfg.Conversion.Strict,
		settings:    cfg.Conversion.Defaults.Settings(),
	}

	if flags.Changed("duration") {
		if convertDuration < 0 {
			return opts, errors.Errorf("%w: duration must not be negative", config.ErrInvalidSettings)
		}
		opts.settings.GameDuration = convertDuration
	}
	if flags.Changed("comments") {
		opts.settings.EnableComments = convertComments
	}
	if flags.Changed("attendance") {
		opts.settings.TrackAttendance = convertAttendance
	}
	if flags.Changed("duty-roster") {
		opts.settings.EnableDutyRoster = convertDutyRoster
	}
	if flags.Changed("ticketing") {
		opts.settings.EnableTicketing = convertTicketing
	}

	format, err := outputFormat(convertFormat, convertOutput)
	if err != nil {
		return opts, err
	}
	opts.format = format

	return opts, nil
}

// outputFormat picks the output format from the flag or the output name.
func outputFormat(flag, output string) (string, error) {
	switch strings.ToLower(flag) {
	case utils.FormatCSV:
		return utils.FormatCSV, nil
	case utils.FormatXLSX:
		return utils.FormatXLSX, nil
	case "":
		if utils.IsWorkbook(output) {
			return utils.FormatXLSX, nil
		}
		return utils.FormatCSV, nil
	}
	return "", errors.Errorf("unsupported format %q", flag)
}

// =============================================================================
// CONVERSION
// =============================================================================

// runConvert executes the conversion pipeline for one file.
//
// PARAMETERS:
//   - ctx: Carries the logger.
//   - cfg: The loaded configuration.
//   - input: The fixture export to read.
//   - opts: The resolved options.
//   - out: Where the summary is printed.
//
// RETURNS:
//   - An error if the input cannot be read or converted, or the output
//     cannot be written. Nothing is written on error.
func runConvert(ctx context.Context, cfg *config.MainConfig, input string, opts convertOptions, out io.Writer) error {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	accessGroup := opts.accessGroup
	if accessGroup == "" {
		accessGroup = cfg.Conversion.DefaultAccessGroup
	}
	if !cfg.Conversion.AllowsAccessGroup(accessGroup) {
		return errors.Errorf("access group %q is not allowed", accessGroup)
	}

	records, err := readRecords(input)
	if err != nil {
		return err
	}
	conv := converter.New(converter.Options{
		ClubName: cfg.Conversion.ClubName,
		Strict:   opts.strict,
	})

	var grades []string
	if len(opts.grades) > 0 {
		grades = opts.grades
	}

	batch, err := conv.ConvertGrades(records, grades, accessGroup, opts.settings)
	if err != nil {
		var invalid validation.Errors
		if errors.As(err, &invalid) {
			printFindings(out, invalid)
			return errors.Errorf("%d row(s) failed validation", len(invalid))
		}
		return errors.Errorf("failed to convert %s: %w", input, err)
	}

	outputPath := utils.OutputPath(input, opts.output, opts.format)
	err = utils.WriteFileAtomic(outputPath, func(w io.Writer) error {
		if opts.format == utils.FormatXLSX {
			return workbook.Write(w, batch.Headers, batch.Rows())
		}
		return csvparser.Write(w, batch.Headers, batch.Rows())
	})
	if err != nil {
		return err
	}

	converter.LogSummary(logger, batch)

	printFindings(out, batch.Warnings)
	color.New(color.FgGreen).Fprintf(out, "  ✓ %s -> %s\n", filepath.Base(input), outputPath)
	fmt.Fprintf(out, "Fixtures:        %d\n", len(batch.Records))
	fmt.Fprintf(out, "Warnings:        %d\n", len(batch.Warnings))
	fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(start).Round(time.Millisecond))

	return nil
}

// readRecords reads a fixture export from disk.
func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	if utils.IsWorkbook(path) {
		return workbook.Read(f)
	}
	return csvparser.Parse(f)
}

// printFindings lists validation findings. Errors are marked ✗ in red and
// warnings ! in yellow.
func printFindings(out io.Writer, findings validation.Errors) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, f := range findings {
		c := yellow
		mark := "!"
		if f.Severity == validation.SeverityError {
			c = red
			mark = "✗"
		}
		c.Fprintf(out, "  %s row %d, %s: %s (value: %q)\n", mark, f.Row, f.Field, f.Message, f.Value)
	}
}
