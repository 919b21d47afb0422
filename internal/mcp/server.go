// Package mcp exposes the impact model over the Model Context Protocol so an
// agent can run scenarios, Monte Carlo analyses and sensitivity
// decompositions through stdio.
package mcp

import (
	"context"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"impact-mcp/internal/cache"
	"impact-mcp/internal/config"
	"impact-mcp/internal/report"
)

const serverName = "impact-mcp"

// Server wires the analysis layers behind MCP tools.
type Server struct {
	cfg     *config.AppConfig
	cache   *cache.Store
	version string
}

// NewServer builds the tool server from application configuration.
func NewServer(cfg *config.AppConfig, version string) *Server {
	return &Server{
		cfg:     cfg,
		cache:   cache.New(cfg.CacheDir, time.Duration(cfg.CacheTTLHours)*time.Hour),
		version: version,
	}
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    serverName,
		Version: s.version,
	}, &sdk.ServerOptions{})

	sdk.AddTool(server, listScenariosTool(), s.handleListScenarios)
	sdk.AddTool(server, runScenarioTool(), s.handleRunScenario)
	sdk.AddTool(server, runMonteCarloTool(), s.handleRunMonteCarlo)
	sdk.AddTool(server, runSensitivityTool(), s.handleRunSensitivity)
	sdk.AddTool(server, compareScenariosTool(), s.handleCompareScenarios)

	log.Info().Str("server", serverName).Str("version", s.version).Msg("MCP server listening on stdio")
	return server.Run(ctx, &sdk.StdioTransport{})
}

func (s *Server) reportOptions() report.Options {
	return report.Options{
		Dir:     s.cfg.ReportsDir,
		Mermaid: s.cfg.EnableMermaidCharts,
		Open:    s.cfg.OpenReports,
	}
}
