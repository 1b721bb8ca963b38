package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/wscc/fixture-converter/internal/csvparser"
	"github.com/wscc/fixture-converter/internal/types"
)

// gradesCmd represents the 'grades' command.
var gradesCmd = &cobra.Command{
	Use:   "grades INPUT",
	Short: "List the grades in a fixture export",
	Long: `List the distinct grades found in a fixture export. The names can be
passed to 'fixtures convert --grade' to convert only some teams.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readRecords(args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 || csvparser.ColumnIndex(records[0], types.ColGrade) < 0 {
			return errors.Errorf("%s has no %q column", args[0], types.ColGrade)
		}

		grades := csvparser.Grades(records)
		out := cmd.OutOrStdout()

		color.New(color.Bold).Fprintf(out, "%d grade(s) in %s\n", len(grades), args[0])
		for _, g := range grades {
			fmt.Fprintf(out, "  %s\n", g)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gradesCmd)
}
