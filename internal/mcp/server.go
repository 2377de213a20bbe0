// Package mcp exposes build reports to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"eyec/internal/logging"
	"eyec/internal/report"
)

const defaultTop = 10

// Server wraps the MCP SDK server. Tools read the report from disk on every
// call, so a running build keeps appearing as it progresses.
type Server struct {
	MCPServer *sdkmcp.Server
	// ReportPath is used when a tool call names no report.
	ReportPath string
}

// NewServer creates an MCP server whose tools default to reportPath.
func NewServer(reportPath, version string) *Server {
	s := &Server{ReportPath: reportPath}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "eyec", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logging.New("mcp").Info("serving build report over stdio", "report", s.ReportPath)
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "report_summary",
		Description: "Summarize a build report: file and stage counts, time per stage type, and the slowest stages.",
	}, s.handleSummary)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_stages",
		Description: "List recorded build stages with their input and output file names, optionally filtered by type.",
	}, s.handleListStages)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_report",
		Description: "Check that every stage references known files and that ids are unique.",
	}, s.handleValidate)
}

// --- Tool input/output types ---

type summaryInput struct {
	Report string `json:"report,omitempty" jsonschema:"report file path (defaults to the server's report)"`
	Top    int    `json:"top,omitempty" jsonschema:"number of slowest stages to include (default 10, negative for all)"`
}

type listStagesInput struct {
	Report string `json:"report,omitempty" jsonschema:"report file path (defaults to the server's report)"`
	Type   string `json:"type,omitempty" jsonschema:"stage type filter: Compilation, Link or Archiving"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of stages to return (0 = all)"`
}

type listStagesOutput struct {
	Total  int                   `json:"total"`
	Stages []report.StageSummary `json:"stages"`
}

type validateInput struct {
	Report string `json:"report,omitempty" jsonschema:"report file path (defaults to the server's report)"`
}

type validateOutput struct {
	Valid    bool   `json:"valid"`
	Problems string `json:"problems,omitempty"`
	Files    int    `json:"files"`
	Stages   int    `json:"stages"`
}

// --- Handlers ---

func (s *Server) handleSummary(_ context.Context, _ *sdkmcp.CallToolRequest, input summaryInput) (*sdkmcp.CallToolResult, report.Summary, error) {
	r, err := s.read(input.Report)
	if err != nil {
		return nil, report.Summary{}, err
	}
	top := input.Top
	if top == 0 {
		top = defaultTop
	}
	return nil, report.Summarize(r, top), nil
}

func (s *Server) handleListStages(_ context.Context, _ *sdkmcp.CallToolRequest, input listStagesInput) (*sdkmcp.CallToolResult, listStagesOutput, error) {
	r, err := s.read(input.Report)
	if err != nil {
		return nil, listStagesOutput{}, err
	}
	if input.Type != "" && !report.StageKind(input.Type).Valid() {
		return nil, listStagesOutput{}, fmt.Errorf("unknown stage type %q", input.Type)
	}
	out := listStagesOutput{Stages: []report.StageSummary{}}
	for _, st := range report.Describe(r) {
		if input.Type != "" && string(st.Kind) != input.Type {
			continue
		}
		out.Total++
		if input.Limit > 0 && len(out.Stages) >= input.Limit {
			continue
		}
		out.Stages = append(out.Stages, st)
	}
	return nil, out, nil
}

func (s *Server) handleValidate(_ context.Context, _ *sdkmcp.CallToolRequest, input validateInput) (*sdkmcp.CallToolResult, validateOutput, error) {
	r, err := s.read(input.Report)
	if err != nil {
		return nil, validateOutput{}, err
	}
	out := validateOutput{Valid: true, Files: len(r.Files), Stages: len(r.Stages)}
	if verr := r.Validate(); verr != nil {
		out.Valid = false
		out.Problems = verr.Error()
	}
	return nil, out, nil
}

// read loads the named report strictly; a tool caller should learn that a
// report is missing or corrupt rather than see an empty one.
func (s *Server) read(path string) (*report.Report, error) {
	if path == "" {
		path = s.ReportPath
	}
	if path == "" {
		return nil, fmt.Errorf("no report path given")
	}
	r, err := report.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report %s does not exist", path)
		}
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return r, nil
}
