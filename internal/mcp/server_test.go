package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/contract-data-extractor/internal/config"
	"github.com/a3tai/contract-data-extractor/internal/output"
	"github.com/a3tai/contract-data-extractor/internal/pdf"
	"github.com/a3tai/contract-data-extractor/internal/pdf/pdftest"
	"github.com/a3tai/contract-data-extractor/internal/pipeline"
)

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.RootDir = root
	cfg.OutputDir = filepath.Join(t.TempDir(), "tables")
	cfg.ServerName = "test-server"
	cfg.MaxFileSize = 1024 * 1024

	processor := pipeline.NewProcessor(pipeline.Options{
		Opener: pdf.NewReader(cfg.MaxFileSize, nil),
		Writer: output.NewWriter(cfg.OutputDir, cfg.Format),
	})

	server, err := NewServer(cfg, processor, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return server
}

func writeAward(t *testing.T, dir string) string {
	t.Helper()
	return pdftest.Write(t, dir, "Award 1.pdf", pdftest.Page{
		{Text: "CONTRACT NO.", X: 50, Top: 40, Size: 10},
		{Text: "N0024418D0003", X: 50, Top: 51, Size: 6},
		{Text: "ORDER NUMBER", X: 300, Top: 40, Size: 10},
		{Text: "N6339418F0035", X: 300, Top: 51, Size: 6},
		{Text: "ITEM NO", X: 50, Top: 100, Size: 10},
		{Text: "0001", X: 50, Top: 111, Size: 10},
	})
}

func writeMod(t *testing.T, dir string) string {
	t.Helper()
	return pdftest.Write(t, dir, "Mod P00001.pdf", pdftest.Page{
		{Text: "AMENDMENT OF SOLICITATION/MODIFICATION OF CONTRACT", X: 36, Top: 20, Size: 10},
		{Text: "MOD. OF CONTRACT/ORDER NO.", X: 50, Top: 40, Size: 10},
		{Text: "N0024418D0003", X: 50, Top: 51, Size: 6},
		{Text: "SUBCLIN 1000: AB: SPARE PARTS", X: 36, Top: 100, Size: 10},
		{Text: "(CIN 0001) was increased by $1,000 from $5,000 to $6,000", X: 36, Top: 114, Size: 10},
	})
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	cfg := config.DefaultConfig()
	processor := pipeline.NewProcessor(pipeline.Options{})

	if _, err := NewServer(nil, processor, nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewServer(cfg, nil, nil); err == nil {
		t.Error("expected error for nil processor")
	}

	server, err := NewServer(cfg, processor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.config != cfg {
		t.Error("server config not set correctly")
	}
	if server.processor != processor {
		t.Error("server processor not set correctly")
	}
	if server.mcpServer == nil {
		t.Error("MCP server should not be nil")
	}
	if server.logger == nil {
		t.Error("logger should default to a no-op logger")
	}
}

func TestServer_HandleClassifyFile(t *testing.T) {
	dir := t.TempDir()
	award := writeAward(t, dir)
	mod := writeMod(t, dir)
	server := newTestServer(t, dir)

	tests := []struct {
		name     string
		path     string
		want     string
		wantFail bool
	}{
		{name: "award", path: award, want: "award"},
		{name: "modification", path: mod, want: "modification"},
		{name: "missing file", path: filepath.Join(dir, "absent.pdf"), wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handleClassifyFile(context.Background(), callRequest(map[string]interface{}{"path": tt.path}))
			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if result.IsError != tt.wantFail {
				t.Fatalf("IsError = %v, want %v: %s", result.IsError, tt.wantFail, extractTextFromResult(result))
			}
			if !tt.wantFail && !strings.HasSuffix(extractTextFromResult(result), ": "+tt.want) {
				t.Errorf("unexpected result: %s", extractTextFromResult(result))
			}
		})
	}
}

func TestServer_HandleExtractFile(t *testing.T) {
	dir := t.TempDir()
	award := writeAward(t, dir)
	server := newTestServer(t, dir)

	result, err := server.handleExtractFile(context.Background(), callRequest(map[string]interface{}{"path": award}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := extractTextFromResult(result)
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}

	for _, want := range []string{
		"Table: Award N0024418D0003 Order N6339418F0035",
		"Rows: 1",
		"SLIN\tACRN",
		"0001\t",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("result should contain %q, got:\n%s", want, text)
		}
	}

	saved := filepath.Join(server.config.OutputDir, "Award N0024418D0003 Order N6339418F0035.csv")
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("table was not saved: %v", err)
	}
}

func TestServer_HandleProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	writeAward(t, dir)
	writeMod(t, dir)
	server := newTestServer(t, dir)

	result, err := server.handleProcessDirectory(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := extractTextFromResult(result)
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "Found: 2, processed: 2, skipped: 0") {
		t.Errorf("unexpected summary:\n%s", text)
	}
	if !strings.Contains(text, "Mod-N0024418D0003 (modification, 1 rows)") {
		t.Errorf("summary should list the modification table:\n%s", text)
	}

	result, err = server.handleProcessDirectory(context.Background(), callRequest(map[string]interface{}{
		"directory": filepath.Join(dir, "absent"),
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for a missing directory")
	}
}

func TestServer_HandleListTables(t *testing.T) {
	dir := t.TempDir()
	server := newTestServer(t, dir)

	result, err := server.handleListTables(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if text := extractTextFromResult(result); !strings.Contains(text, "No output folder found") {
		t.Errorf("expected missing folder notice, got: %s", text)
	}

	writeAward(t, dir)
	writeMod(t, dir)
	if _, err := server.processor.Run(context.Background(), dir); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	result, err = server.handleListTables(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := extractTextFromResult(result)
	if !strings.Contains(text, "Award: Award N0024418D0003 Order N6339418F0035 (1 rows)") {
		t.Errorf("award missing from listing:\n%s", text)
	}
	if !strings.Contains(text, "  Modification: Mod-N0024418D0003 (1 rows)") {
		t.Errorf("modification should be grouped under the award:\n%s", text)
	}
}

func TestServer_InvalidArguments(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"classify": server.handleClassifyFile,
		"extract":  server.handleExtractFile,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if !result.IsError {
				t.Error("expected tool error for missing path")
			}
		})
	}
}

// Helper function to extract text from a CallToolResult
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
