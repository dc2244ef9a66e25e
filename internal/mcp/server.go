package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/contract-data-extractor/internal/config"
	"github.com/a3tai/contract-data-extractor/internal/dashboard"
	"github.com/a3tai/contract-data-extractor/internal/descriptions"
	"github.com/a3tai/contract-data-extractor/internal/output"
	"github.com/a3tai/contract-data-extractor/internal/pipeline"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	processor *pipeline.Processor
	mcpServer *server.MCPServer
	logger    *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, processor *pipeline.Processor, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if processor == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		processor: processor,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	classifyTool := mcp.NewTool(
		descriptions.ClassifyFileTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ClassifyFileTool)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(classifyTool, s.handleClassifyFile)

	extractTool := mcp.NewTool(
		descriptions.ExtractFileTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ExtractFileTool)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractFile)

	processTool := mcp.NewTool(
		descriptions.ProcessDirectoryTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ProcessDirectoryTool)),
		mcp.WithString("directory",
			mcp.Description("Directory to process (uses the configured root if empty)"),
		),
	)
	s.mcpServer.AddTool(processTool, s.handleProcessDirectory)

	listTool := mcp.NewTool(
		descriptions.ListTablesTool,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ListTablesTool)),
	)
	s.mcpServer.AddTool(listTool, s.handleListTables)
}

func (s *Server) handleClassifyFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	kind, err := s.processor.Classify(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", path, kind)), nil
}

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.processor.ProcessFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	table, err := output.ReadTable(result.Output)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("table saved to %s but could not be read back: %v", result.Output, err)), nil
	}

	return mcp.NewToolResultText(formatExtractResult(result, table)), nil
}

func (s *Server) handleProcessDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.RootDir
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}
	if directory == "" {
		return mcp.NewToolResultError("no directory given and no root directory configured"), nil
	}

	summary, err := s.processor.Run(ctx, directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSummary(summary)), nil
}

func (s *Server) handleListTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := dashboard.Load(s.config.OutputDir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCatalog(catalog)), nil
}

func formatExtractResult(result *pipeline.FileResult, table *output.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extracted %s: %s\n", result.Kind, result.Path)
	fmt.Fprintf(&b, "Table: %s\n", result.Name)
	fmt.Fprintf(&b, "Saved to: %s\n", result.Output)
	fmt.Fprintf(&b, "Rows: %d\n", result.Rows)
	if len(table.Records) > 0 {
		b.WriteString("\n")
		writeTable(&b, table)
	}
	return b.String()
}

func formatSummary(summary *pipeline.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed directory: %s\n", summary.Root)
	fmt.Fprintf(&b, "Found: %d, processed: %d, skipped: %d, rows: %d\n",
		summary.Found, summary.Processed, summary.Skipped, summary.Rows)

	if len(summary.Results) > 0 {
		b.WriteString("\nTables:\n")
		for i, r := range summary.Results {
			fmt.Fprintf(&b, "%d. %s (%s, %d rows)\n", i+1, r.Name, r.Kind, r.Rows)
			fmt.Fprintf(&b, "   Source: %s\n", r.Path)
			fmt.Fprintf(&b, "   Saved to: %s\n", r.Output)
		}
	}
	return b.String()
}

func formatCatalog(c *dashboard.Catalog) string {
	if !c.Exists {
		return fmt.Sprintf("No output folder found at %s", c.Dir)
	}
	if c.Empty() {
		return fmt.Sprintf("No table files found in %s", c.Dir)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tables in %s\n", c.Dir)
	for _, g := range c.Groups {
		fmt.Fprintf(&b, "\nAward: %s%s\n", g.Award.Name, entrySuffix(g.Award))
		for _, m := range g.Modifications {
			fmt.Fprintf(&b, "  Modification: %s%s\n", m.Name, entrySuffix(m))
		}
	}
	if len(c.Unmatched) > 0 {
		b.WriteString("\nUnmatched modifications:\n")
		for _, m := range c.Unmatched {
			fmt.Fprintf(&b, "  %s%s\n", m.Name, entrySuffix(m))
		}
	}
	if len(c.Other) > 0 {
		b.WriteString("\nOther files:\n")
		for _, o := range c.Other {
			fmt.Fprintf(&b, "  %s%s\n", o.File, entrySuffix(o))
		}
	}
	return b.String()
}

func entrySuffix(e dashboard.Entry) string {
	switch {
	case e.Error != "":
		return fmt.Sprintf(" (unreadable: %s)", e.Error)
	case e.Table != nil:
		return fmt.Sprintf(" (%d rows)", len(e.Table.Records))
	default:
		return ""
	}
}

// writeTable renders a table as tab-separated lines
func writeTable(b *strings.Builder, t *output.Table) {
	b.WriteString(strings.Join(t.Header, "\t"))
	b.WriteString("\n")
	for _, rec := range t.Records {
		b.WriteString(strings.Join(rec, "\t"))
		b.WriteString("\n")
	}
}

// Run serves MCP over stdio until the client disconnects
func (s *Server) Run(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode",
		zap.String("name", s.config.ServerName),
		zap.String("output", s.config.OutputDir))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
