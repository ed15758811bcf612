// Package mcp exposes the analyzer over the Model Context Protocol, so
// agents can categorize component sources without shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
	"github.com/reuselens/reuselens/pkg/scanner"
	"github.com/reuselens/reuselens/pkg/version"
)

const serverName = "reuselens-mcp-server"

// Server wires the scan pipeline into an MCP stdio server.
type Server struct {
	server   *mcp.Server
	scanner  *scanner.Scanner
	registry *platform.Registry
	logger   *slog.Logger
}

// NewServer builds the MCP server over the given signature registry.
func NewServer(registry *platform.Registry, scan *scanner.Scanner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		scanner:  scan,
		registry: registry,
		logger:   logger,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version.Version,
	}, nil)

	s.registerTools()

	return s
}

// Run serves MCP over stdio until the context is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server started", "server", serverName)

	err := s.server.Run(ctx, &mcp.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name: "reuselens_scan",
		Description: "Categorize statements in React/React Native component sources as " +
			"web-specific, native-specific, or shared, and report the reusability percentage. " +
			"Pass 'path' to scan a file or directory tree, or 'code' plus 'filename' to " +
			"analyze an in-memory snippet.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "File or directory to scan",
				},
				"code": {
					Type:        "string",
					Description: "Source code to analyze instead of a path",
				},
				"filename": {
					Type:        "string",
					Description: "Filename for 'code'; its extension selects the grammar (e.g. Component.tsx)",
				},
				"occurrences": {
					Type:        "boolean",
					Description: "Include the per-line pattern occurrence list in the result",
				},
			},
		},
	}, s.handleScan)

	s.server.AddTool(&mcp.Tool{
		Name: "reuselens_signatures",
		Description: "List the active platform signatures: the patterns that mark a " +
			"statement as web-specific or native-specific.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleSignatures)
}
