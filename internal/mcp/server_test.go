package mcp_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mcpserver "eyec/internal/mcp"
	"eyec/internal/report"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
	os.Exit(m.Run())
}

func writeReport(t *testing.T) string {
	t.Helper()
	r := report.New()
	r.Append(report.Stage{ID: "s1", Inputs: []string{"f1"}, Outputs: []string{"f2"}, Kind: report.Compilation, Duration: 120},
		report.File{ID: "f1", Kind: report.Source, Name: "a.cpp"},
		report.File{ID: "f2", Kind: report.Object, Name: "a.o"})
	r.Append(report.Stage{ID: "s2", Inputs: []string{"f3"}, Outputs: []string{"f4"}, Kind: report.Compilation, Duration: 80},
		report.File{ID: "f3", Kind: report.Source, Name: "b.cpp"},
		report.File{ID: "f4", Kind: report.Object, Name: "b.o"})
	r.Append(report.Stage{ID: "s3", Inputs: []string{"f5", "f6"}, Outputs: []string{"f7"}, Kind: report.Link, Duration: 50},
		report.File{ID: "f7", Kind: report.Executable, Name: "prog"},
		report.File{ID: "f5", Kind: report.Object, Name: "a.o"},
		report.File{ID: "f6", Kind: report.Object, Name: "b.o"})
	path := filepath.Join(t.TempDir(), report.DefaultFilename)
	if err := report.Save(path, r); err != nil {
		t.Fatal(err)
	}
	return path
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) map[string]any {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if res.IsError {
		for _, c := range res.Content {
			if tc, ok := c.(*sdkmcp.TextContent); ok {
				t.Fatalf("CallTool(%s) returned error: %s", name, tc.Text)
			}
		}
		t.Fatalf("CallTool(%s) returned error", name)
	}
	result := make(map[string]any)
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			if err := json.Unmarshal([]byte(tc.Text), &result); err != nil {
				t.Fatalf("unmarshal tool result: %v (text: %s)", err, tc.Text)
			}
			return result
		}
	}
	t.Fatalf("no text content in tool result")
	return nil
}

func TestServer_ToolDiscovery(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session := connectInMemory(t, ctx, mcpserver.NewServer("", "test"))

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, want := range []string{"report_summary", "list_stages", "validate_report"} {
		if !got[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}

func TestServer_ReportSummary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session := connectInMemory(t, ctx, mcpserver.NewServer(writeReport(t), "test"))

	out := callTool(t, ctx, session, "report_summary", map[string]any{"top": 1})
	if out["stages"].(float64) != 3 || out["files"].(float64) != 7 || out["total_ms"].(float64) != 250 {
		t.Errorf("summary = %v", out)
	}
	slowest := out["slowest"].([]any)
	if len(slowest) != 1 || slowest[0].(map[string]any)["id"] != "s1" {
		t.Errorf("slowest = %v", slowest)
	}
}

func TestServer_ReportSummaryTop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session := connectInMemory(t, ctx, mcpserver.NewServer(writeReport(t), "test"))

	cases := []struct {
		top  int
		want int
	}{
		{top: 0, want: 3},
		{top: 2, want: 2},
		{top: -1, want: 3},
	}
	for _, tc := range cases {
		out := callTool(t, ctx, session, "report_summary", map[string]any{"top": tc.top})
		if got := len(out["slowest"].([]any)); got != tc.want {
			t.Errorf("top=%d: %d slowest stages, want %d", tc.top, got, tc.want)
		}
	}
}

func TestServer_ListStagesFilter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session := connectInMemory(t, ctx, mcpserver.NewServer(writeReport(t), "test"))

	out := callTool(t, ctx, session, "list_stages", map[string]any{"type": "Compilation", "limit": 1})
	if out["total"].(float64) != 2 {
		t.Errorf("total = %v", out["total"])
	}
	stages := out["stages"].([]any)
	if len(stages) != 1 {
		t.Fatalf("stages = %v", stages)
	}
	first := stages[0].(map[string]any)
	if first["kind"] != "Compilation" || first["outputs"].([]any)[0] != "a.o" {
		t.Errorf("first stage = %v", first)
	}
}

func TestServer_ValidateReport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path := writeReport(t)
	session := connectInMemory(t, ctx, mcpserver.NewServer("", "test"))
	out := callTool(t, ctx, session, "validate_report", map[string]any{"report": path})
	if out["valid"] != true {
		t.Errorf("validate = %v", out)
	}

	broken := filepath.Join(t.TempDir(), "broken.json")
	body := `{"files":[],"stages":[{"id":"s","inputs":["ghost"],"outputs":[],"type":"Link","duration":1}]}`
	if err := os.WriteFile(broken, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	out = callTool(t, ctx, session, "validate_report", map[string]any{"report": broken})
	if out["valid"] != false || !strings.Contains(out["problems"].(string), "ghost") {
		t.Errorf("validate = %v", out)
	}
}

func TestServer_MissingReportIsToolError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session := connectInMemory(t, ctx, mcpserver.NewServer(filepath.Join(t.TempDir(), "none.json"), "test"))

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "report_summary", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing report")
	}
}

func TestWatchParent_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mcpserver.WatchParent(ctx, 10*time.Millisecond, cancel)
	cancel()
	time.Sleep(30 * time.Millisecond)
}
