package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/a3tai/transcript-gpa/internal/pdf"
	"github.com/a3tai/transcript-gpa/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract <transcript.pdf>",
	Short: "Print the courses and GPA of a transcript PDF",
	Long: `Extract reads the text layer of a transcript, keeps the lines that look
like course rows and prints them with the GPA they give. Lines that do not
match are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// local invocations may name any file
		svc, err := pdf.NewService(cfg.MaxFileSize, "", log())
		if err != nil {
			return err
		}
		return runExtract(cmd.OutOrStdout(), svc, args[0], cfg.OutputFormat, cfg.LabelPrefix)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(w io.Writer, svc *pdf.Service, path, format, label string) error {
	ext, err := svc.ExtractCourses(path)
	if err != nil {
		log().Error().Err(err).Str("path", path).Msg("extract transcript")
		return err
	}
	return report.Render(w, format, report.New(ext.Path, ext.Courses, label), -1)
}
