package docpipe

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "odfhtml-test", Version: "0.1.0"}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	pipe := New(Config{})
	srv := mcp.NewServer(testMCPImpl, nil)
	pipe.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCall(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return result
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result := mcpCall(t, session, name, args)
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

// --- odfhtml_formats ---

func TestMCP_Formats(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "odfhtml_formats", map[string]any{})

	var resp struct {
		Formats []string `json:"formats"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	expected := map[string]bool{"odt": true, "ott": true, "ods": true, "ots": true, "odp": true, "fodt": true, "fods": true, "xml": true}
	for _, f := range resp.Formats {
		if !expected[f] {
			t.Errorf("unexpected format: %q", f)
		}
		delete(expected, f)
	}
	for f := range expected {
		t.Errorf("missing format: %q", f)
	}
}

// --- odfhtml_detect ---

func TestMCP_Detect(t *testing.T) {
	session := mcpSession(t)

	tests := []struct {
		path   string
		format string
	}{
		{"report.odt", "odt"},
		{"budget.ods", "ods"},
		{"slides.odp", "odp"},
		{"flat.fodt", "fodt"},
	}
	for _, tt := range tests {
		text := mcpCallTool(t, session, "odfhtml_detect", map[string]any{"path": tt.path})
		var resp struct {
			Format string `json:"format"`
		}
		json.Unmarshal([]byte(text), &resp)
		if resp.Format != tt.format {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, resp.Format, tt.format)
		}
	}
}

func TestMCP_Detect_Unsupported(t *testing.T) {
	session := mcpSession(t)

	result := mcpCall(t, session, "odfhtml_detect", map[string]any{"path": "report.docx"})
	if !result.IsError {
		t.Error("expected tool error for .docx")
	}
}

// --- odfhtml_convert ---

func TestMCP_Convert_Document(t *testing.T) {
	session := mcpSession(t)
	path := writeODT(t, reportBody)

	text := mcpCallTool(t, session, "odfhtml_convert", map[string]any{"path": path})

	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Format != FormatODT {
		t.Errorf("Format = %q, want %q", doc.Format, FormatODT)
	}
	if doc.Title != "Report" {
		t.Errorf("Title = %q, want Report", doc.Title)
	}
}

func TestMCP_Convert_Markdown(t *testing.T) {
	session := mcpSession(t)
	path := writeODT(t, reportBody)

	text := mcpCallTool(t, session, "odfhtml_convert", map[string]any{"path": path, "output": "markdown"})

	var resp struct {
		Output  string `json:"output"`
		Content string `json:"content"`
	}
	json.Unmarshal([]byte(text), &resp)
	if resp.Output != "markdown" {
		t.Errorf("output = %q", resp.Output)
	}
	if resp.Content == "" || resp.Content[0] != '#' {
		t.Errorf("content = %q, want markdown heading first", resp.Content)
	}
}
