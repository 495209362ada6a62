// Package main is the entry point for the transcript-gpa CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/a3tai/transcript-gpa/internal/config"
	"github.com/a3tai/transcript-gpa/internal/logger"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
	gitCommit = "unknown" // set by build flags
)

// cfg is resolved from flags, environment and config file before any
// subcommand runs
var cfg *config.Config

// rootCmd is the base command for the transcript-gpa CLI.
var rootCmd = &cobra.Command{
	Use:   "transcript-gpa",
	Short: "Read course tables from transcript PDFs and compute the GPA",
	Long: `transcript-gpa scans the text of a transcript PDF for course rows
(code, name, credit, letter grade) and computes the credit-weighted GPA.

extract prints the courses and GPA of a transcript, gpa computes
it from a YAML or JSON course list, edit opens an interactive table editor,
and serve exposes the same operations as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if version != "dev" {
			c.Version = version
		}
		cfg = c

		logger.Init(logger.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
		})
		log().Debug().Str("config", cfg.String()).Msg("configuration loaded")
		return nil
	},
}

func init() {
	config.DefineFlags(rootCmd.PersistentFlags())
}

func log() zerolog.Logger {
	return *logger.Get()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
