package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/a3tai/transcript-gpa/internal/report"
	"github.com/a3tai/transcript-gpa/internal/transcript"
)

var gpaCmd = &cobra.Command{
	Use:   "gpa <courses.yaml|courses.json|->",
	Short: "Compute the GPA of a YAML or JSON course list",
	Long: `Gpa reads courses written by "extract --format yaml" (or json), or a plain
list of {code, name, credit, grade} entries, and prints the GPA. Use - to
read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readRecords(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		source := args[0]
		if source == "-" {
			source = ""
		}
		return report.Render(cmd.OutOrStdout(), cfg.OutputFormat, report.New(source, records, cfg.LabelPrefix), -1)
	},
}

func init() {
	rootCmd.AddCommand(gpaCmd)
}

func readRecords(stdin io.Reader, path string) ([]transcript.CourseRecord, error) {
	if path != "-" {
		return report.LoadRecords(path)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	return report.ParseRecords(data)
}
