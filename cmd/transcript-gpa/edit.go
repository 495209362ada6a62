package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a3tai/transcript-gpa/internal/pdf"
	"github.com/a3tai/transcript-gpa/internal/shell"
	"github.com/a3tai/transcript-gpa/internal/transcript"
)

var noHistory bool

var editCmd = &cobra.Command{
	Use:   "edit [transcript.pdf]",
	Short: "Edit a course table interactively",
	Long: `Edit opens a line editor over the course table. Rows can be loaded from a
transcript, added, deleted, selected and changed by hand. The GPA is
recomputed and printed after every change. Type help inside the editor
for the list of commands.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := pdf.NewService(cfg.MaxFileSize, "", log())
		if err != nil {
			return err
		}

		sh := newEditor(cmd.OutOrStdout(), svc, args)

		history := ""
		if !noHistory {
			history = historyFile()
		}
		return sh.Run(history)
	},
}

func init() {
	editCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not read or write the command history file")
	rootCmd.AddCommand(editCmd)
}

// newEditor builds the shell and loads the transcript named in args, if any.
// A transcript that cannot be read leaves the editor open on an empty table.
func newEditor(out io.Writer, loader shell.Loader, args []string) *shell.Shell {
	table := transcript.NewTable(
		transcript.WithLabel(cfg.LabelPrefix),
		transcript.WithLogger(log()),
	)
	sh := shell.New(table, loader, out, log())
	sh.SetFormat(cfg.OutputFormat)

	if len(args) == 1 {
		if _, err := sh.Exec("load " + args[0]); err != nil {
			log().Warn().Err(err).Msg("starting with an empty table")
		}
	}
	return sh
}

// historyFile is where the editor keeps its command history
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "transcript-gpa")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
