package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/a3tai/transcript-gpa/internal/config"
	"github.com/a3tai/transcript-gpa/internal/descriptions"
	"github.com/a3tai/transcript-gpa/internal/pdf"
	"github.com/a3tai/transcript-gpa/internal/report"
	"github.com/a3tai/transcript-gpa/internal/transcript"
)

// shutdownTimeout bounds how long server mode waits for open connections
const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance. It holds one course table
// shared by every client of the process.
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	info       *pdf.ServerInfo
	table      *transcript.Table
	mcpServer  *server.MCPServer
	log        zerolog.Logger

	mu     sync.Mutex
	source string
}

// ToolNames lists the tools the server registers, in registration order
func ToolNames() []string {
	return []string{
		"transcript_load",
		"transcript_extract_text",
		"transcript_add",
		"transcript_delete",
		"transcript_select",
		"transcript_edit",
		"transcript_reset",
		"transcript_show",
		"transcript_gpa",
		"transcript_list",
		"transcript_inspect",
		"transcript_validate",
		"transcript_server_info",
	}
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, log zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	log = log.With().Str("component", "mcp").Logger()

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		info:       pdf.NewServerInfo(pdfService, cfg.ServerName, cfg.Version, ToolNames()),
		table:      transcript.NewTable(transcript.WithLabel(cfg.LabelPrefix), transcript.WithLogger(log)),
		mcpServer:  mcpServer,
		log:        log,
	}

	s.registerTools()

	return s, nil
}

// Table returns the session course table
func (s *Server) Table() *transcript.Table {
	return s.table
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathArg := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the transcript PDF, absolute or relative to the configured directory"),
	)

	s.mcpServer.AddTool(mcp.NewTool("transcript_load",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_load")),
		pathArg,
	), s.handleLoad)

	s.mcpServer.AddTool(mcp.NewTool("transcript_extract_text",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_extract_text")),
		pathArg,
	), s.handleExtractText)

	s.mcpServer.AddTool(mcp.NewTool("transcript_add",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_add")),
		mcp.WithString("code", mcp.Required(), mcp.Description("Course code, e.g. CSE101")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Course name")),
		mcp.WithString("credit", mcp.Required(), mcp.Description("Credit, e.g. 4")),
		mcp.WithString("grade", mcp.Required(), mcp.Description("Letter grade, e.g. BA")),
	), s.handleAdd)

	s.mcpServer.AddTool(mcp.NewTool("transcript_delete",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_delete")),
		mcp.WithNumber("index", mcp.Description("0-based row to delete; the selected row when omitted")),
	), s.handleDelete)

	s.mcpServer.AddTool(mcp.NewTool("transcript_select",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_select")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based row, or -1 to clear")),
	), s.handleSelect)

	s.mcpServer.AddTool(mcp.NewTool("transcript_edit",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_edit")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based row")),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Column to change"),
			mcp.Enum("code", "name", "credit", "grade"),
		),
		mcp.WithString("value", mcp.Required(), mcp.Description("New cell text")),
	), s.handleEdit)

	s.mcpServer.AddTool(mcp.NewTool("transcript_reset",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_reset")),
	), s.handleReset)

	s.mcpServer.AddTool(mcp.NewTool("transcript_show",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_show")),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum(report.FormatText, report.FormatJSON, report.FormatYAML),
		),
	), s.handleShow)

	s.mcpServer.AddTool(mcp.NewTool("transcript_gpa",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_gpa")),
	), s.handleGPA)

	s.mcpServer.AddTool(mcp.NewTool("transcript_list",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_list")),
		mcp.WithString("directory", mcp.Description("Directory to search (uses the configured directory if empty)")),
		mcp.WithString("query", mcp.Description("Case-insensitive file name filter")),
	), s.handleList)

	s.mcpServer.AddTool(mcp.NewTool("transcript_inspect",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_inspect")),
		pathArg,
	), s.handleInspect)

	s.mcpServer.AddTool(mcp.NewTool("transcript_validate",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_validate")),
		pathArg,
	), s.handleValidate)

	s.mcpServer.AddTool(mcp.NewTool("transcript_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_server_info")),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleLoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ext, err := s.pdfService.ExtractCourses(path)
	if err != nil {
		// the table keeps its rows when a transcript cannot be read
		s.log.Error().Err(err).Str("path", path).Msg("load transcript")
		return mcp.NewToolResultError(fmt.Sprintf("failed to load transcript: %v", err)), nil
	}

	if err := s.table.Load(ext.Courses); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.setSource(ext.Path)

	text := fmt.Sprintf("Loaded %d course(s) from %s (%d page(s))\n\n", len(ext.Courses), ext.Path, ext.Pages)
	if len(ext.Courses) == 0 {
		text += "No course rows were recognized. Use 'transcript_extract_text' to see the text layer.\n\n"
	}
	return s.tableResult(text, report.FormatText)
}

func (s *Server) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ReadTranscript(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Transcript: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	if result.EmptyPages > 0 {
		text += fmt.Sprintf("Pages without text: %d\n", result.EmptyPages)
	}
	text += "\nContent:\n" + result.Content

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	_, err := s.table.AddManual(
		stringArg(args, "code"),
		stringArg(args, "name"),
		stringArg(args, "credit"),
		stringArg(args, "grade"),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.tableResult("Course added\n\n", report.FormatText)
}

func (s *Server) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx, ok, err := intArg(request.GetArguments(), "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !ok {
		deleted, err := s.table.DeleteSelected()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !deleted {
			return mcp.NewToolResultText("No row selected, nothing deleted\n" + s.table.Display()), nil
		}
		return s.tableResult("Selected row deleted\n\n", report.FormatText)
	}

	if err := s.table.Delete(idx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.tableResult(fmt.Sprintf("Row %d deleted\n\n", idx), report.FormatText)
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx, ok, err := intArg(request.GetArguments(), "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("required argument \"index\" not found"), nil
	}

	if err := s.table.Select(idx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if idx < 0 {
		return mcp.NewToolResultText("Selection cleared"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Row %d selected", idx)), nil
}

func (s *Server) handleEdit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	idx, ok, err := intArg(args, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("required argument \"index\" not found"), nil
	}

	colName, err := request.RequireString("column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := transcript.ParseColumn(colName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.table.Edit(idx, col, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.tableResult(fmt.Sprintf("Row %d %s updated\n\n", idx, col), report.FormatText)
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.table.Reset(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.setSource("")
	return mcp.NewToolResultText("Table cleared\n" + s.table.Display()), nil
}

func (s *Server) handleShow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := stringArg(request.GetArguments(), "format")
	if format == "" {
		format = s.config.OutputFormat
	}
	return s.tableResult("", format)
}

func (s *Server) handleGPA(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.table.Result()

	text := s.table.Display() + "\n"
	text += fmt.Sprintf("Credits counted: %s\n", strconv.FormatFloat(result.TotalCredits, 'f', -1, 64))
	text += fmt.Sprintf("Rows counted: %d\n", result.Counted)
	if result.Skipped > 0 {
		text += fmt.Sprintf("Rows skipped (missing grade or non-numeric credit): %d\n", result.Skipped)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	result, err := s.pdfService.ListTranscripts(stringArg(args, "directory"), stringArg(args, "query"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No transcripts found in directory: %s", result.Directory)
		if result.Query != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.Query)
		}
		return mcp.NewToolResultText(text), nil
	}

	return mcp.NewToolResultText(formatListResult(result)), nil
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.InspectTranscript(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := "Transcript File\n"
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	if result.Version != "" {
		text += fmt.Sprintf("PDF version: %s\n", result.Version)
	}
	text += fmt.Sprintf("Encrypted: %t\n", result.Encrypted)
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateTranscript(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable", result.Path)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatServerInfo(s.info.Get())), nil
}

// tableResult renders the session table after prefix
func (s *Server) tableResult(prefix, format string) (*mcp.CallToolResult, error) {
	r := report.New(s.getSource(), s.table.Records(), s.table.Label())

	var b strings.Builder
	b.WriteString(prefix)
	if err := report.Render(&b, format, r, s.table.Selected()); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) setSource(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = path
}

func (s *Server) getSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Argument helpers

func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// intArg reads an integer argument. JSON numbers arrive as float64; numeric
// strings are accepted too. It reports false when the argument is absent.
func intArg(args map[string]any, key string) (int, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, true, fmt.Errorf("argument %q must be an integer", key)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, fmt.Errorf("argument %q must be an integer", key)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("argument %q must be an integer", key)
	}
}

// Formatting functions
func formatListResult(result *pdf.ListResult) string {
	text := fmt.Sprintf("Found %d transcript(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.Query != "" {
		text += fmt.Sprintf("Search query: %s\n", result.Query)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func formatServerInfo(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	if result.Directory != "" {
		text += fmt.Sprintf("Transcript Directory: %s\n", result.Directory)
	}
	text += fmt.Sprintf("Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.Transcripts) > 0 {
		text += fmt.Sprintf("Transcripts (%d found):\n", len(result.Transcripts))
		for i, file := range result.Transcripts {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.Transcripts)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		if result.Truncated {
			text += "   (listing truncated)\n"
		}
		text += "\n"
	} else {
		text += "Transcripts: none found\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server over stdin and stdout. ledongthuc/pdf prints
// parser diagnostics with fmt.Printf, so os.Stdout points at stderr while
// serving and only the protocol writes to the real stdout.
func (s *Server) runStdioMode(ctx context.Context) error {
	s.log.Debug().
		Str("mode", config.ModeStdio).
		Str("directory", s.config.TranscriptDirectory).
		Msg("starting transcript MCP server")

	stdout, restore := redirectStdout(os.Stderr)
	defer restore()

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// redirectStdout points os.Stdout at to. It returns the previous stdout and a
// func restoring it.
func redirectStdout(to *os.File) (*os.File, func()) {
	orig := os.Stdout
	os.Stdout = to
	return orig, func() { os.Stdout = orig }
}

// runServerMode serves MCP over HTTP with server-sent events until ctx ends
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	s.log.Info().
		Str("mode", config.ModeServer).
		Str("address", addr).
		Str("directory", s.config.TranscriptDirectory).
		Msg("starting transcript MCP server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- sseServer.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		s.log.Info().Msg("server stopped")
		return nil
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve http: %w", err)
	}
}
