// Package mcp exposes the spillover pipeline over the Model Context
// Protocol so agent hosts can run reports as a tool call.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"spillover/internal/config"
	"spillover/internal/format"
	"spillover/internal/jira"
	"spillover/internal/logging"
	"spillover/internal/spillover"
)

// Server wraps the MCP SDK server around a fixed base configuration.
// Tool inputs may override per-call report parameters but never the
// instance or credential settings.
type Server struct {
	MCP *sdkmcp.Server
	cfg config.Config
}

// NewServer creates an MCP server with the report and auth-check tools.
func NewServer(cfg config.Config, version string) *Server {
	s := &Server{cfg: cfg}
	s.MCP = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "spillover", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCP, &sdkmcp.Tool{
		Name:        "run_report",
		Description: "Run the sprint-spillover report: issues worked across more than one sprint within the recency window, with resolved epic titles.",
	}, s.handleRunReport)

	sdkmcp.AddTool(s.MCP, &sdkmcp.Tool{
		Name:        "whoami",
		Description: "Verify the configured Jira credential and return the authenticated user.",
	}, s.handleWhoami)
}

// --- Tool input/output types ---

type runReportInput struct {
	Project     string `json:"project,omitempty" jsonschema:"Jira project key; defaults to the configured project"`
	WindowDays  int    `json:"window_days,omitempty" jsonschema:"recency window in days (default 10)"`
	EpicWorkers int    `json:"epic_workers,omitempty" jsonschema:"concurrent epic lookups (default 1 = serial)"`
}

type runReportOutput struct {
	Total int             `json:"total"`
	Rows  []spillover.Row `json:"rows"`
	Table string          `json:"table"`
}

type whoamiInput struct{}

type whoamiOutput struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleRunReport(ctx context.Context, _ *sdkmcp.CallToolRequest, input runReportInput) (*sdkmcp.CallToolResult, runReportOutput, error) {
	cfg := s.cfg
	if input.Project != "" {
		cfg.Project = input.Project
	}
	if input.WindowDays > 0 {
		cfg.WindowDays = input.WindowDays
	}
	if input.EpicWorkers > 0 {
		cfg.EpicWorkers = input.EpicWorkers
	}
	if cfg.Project == "" {
		return nil, runReportOutput{}, fmt.Errorf("project is required (tool input or server configuration)")
	}

	client, err := s.newClient()
	if err != nil {
		return nil, runReportOutput{}, err
	}

	rows, err := spillover.Run(ctx, client, spillover.Params{
		Project:          cfg.Project,
		WindowDays:       cfg.WindowDays,
		PageSize:         cfg.PageSize,
		ExcludedTypes:    cfg.ExcludedTypes,
		SprintField:      cfg.SprintField,
		EpicLinkField:    cfg.EpicLinkField,
		EpicNameField:    cfg.EpicNameField,
		StoryPointsField: cfg.StoryPointsField,
		EpicWorkers:      cfg.EpicWorkers,
	}, logging.New("mcp-pipeline"))
	if err != nil {
		return nil, runReportOutput{}, fmt.Errorf("run_report: %w", err)
	}

	return nil, runReportOutput{
		Total: len(rows),
		Rows:  rows,
		Table: spillover.Render(rows, format.Markdown),
	}, nil
}

func (s *Server) handleWhoami(ctx context.Context, _ *sdkmcp.CallToolRequest, _ whoamiInput) (*sdkmcp.CallToolResult, whoamiOutput, error) {
	client, err := s.newClient()
	if err != nil {
		return nil, whoamiOutput{}, err
	}
	user, err := client.Myself(ctx)
	if err != nil {
		return nil, whoamiOutput{}, fmt.Errorf("whoami: %w", err)
	}
	name := user.DisplayName
	if name == "" {
		name = user.Name
	}
	return nil, whoamiOutput{Name: name, Email: user.EmailAddress}, nil
}

func (s *Server) newClient() (*jira.Client, error) {
	cred, err := jira.ReadCredential(s.cfg.CredentialFile)
	if err != nil {
		return nil, err
	}
	if s.cfg.BaseURL == "" {
		return nil, fmt.Errorf("jira base URL is not configured")
	}
	return jira.New(s.cfg.BaseURL, cred,
		jira.WithLogger(logging.New("jira")),
		jira.WithTimeout(s.cfg.HTTPTimeout),
	)
}
