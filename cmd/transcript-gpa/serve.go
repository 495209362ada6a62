package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/transcript-gpa/internal/config"
	"github.com/a3tai/transcript-gpa/internal/mcp"
	"github.com/a3tai/transcript-gpa/internal/pdf"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Serve exposes the course table and GPA calculator as MCP tools. In stdio
mode (the default) the parent process owns the lifecycle. In server mode
an SSE endpoint listens on --host and --port until SIGINT, SIGTERM or
SIGHUP. Transcript paths are confined to --dir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context, cfg *config.Config) error {
	l := log()

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.TranscriptDirectory, l)
	if err != nil {
		return fmt.Errorf("failed to create PDF service: %w", err)
	}

	server, err := mcp.NewServer(cfg, pdfService, l)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	l.Info().
		Str("mode", cfg.Mode).
		Str("directory", cfg.TranscriptDirectory).
		Str("version", cfg.Version).
		Msg("starting transcript-gpa server")

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	l.Info().Msg("server stopped")
	return nil
}
