package main

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"spillover/internal/logging"
	mcpserver "spillover/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing the spillover report
pipeline as tools (run_report, whoami), so agent hosts can query sprint
spillover without shelling out to the CLI.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv := mcpserver.NewServer(appCfg, version)
	logging.New("mcp").Info("starting spillover MCP server over stdio")
	return srv.MCP.Run(cmd.Context(), &sdkmcp.StdioTransport{})
}
