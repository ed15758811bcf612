package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
)

// Sentinel errors for tool argument validation.
var (
	errMissingInput    = errors.New("either 'path' or 'code' is required")
	errMissingFilename = errors.New("'filename' is required with 'code'")
	errConflictInput   = errors.New("'path' and 'code' are mutually exclusive")
)

type scanParams struct {
	Path        string `json:"path"`
	Code        string `json:"code"`
	Filename    string `json:"filename"`
	Occurrences bool   `json:"occurrences"`
}

func (p *scanParams) validate() error {
	if p.Path == "" && p.Code == "" {
		return errMissingInput
	}

	if p.Path != "" && p.Code != "" {
		return errConflictInput
	}

	if p.Code != "" && p.Filename == "" {
		return errMissingFilename
	}

	return nil
}

func (s *Server) handleScan(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params scanParams

	unmarshalErr := json.Unmarshal(req.Params.Arguments, &params)
	if unmarshalErr != nil {
		return errorResult(fmt.Errorf("decode arguments: %w", unmarshalErr)), nil
	}

	validateErr := params.validate()
	if validateErr != nil {
		return errorResult(validateErr), nil
	}

	summary, err := s.scan(ctx, params)
	if err != nil {
		return errorResult(err), nil
	}

	if !params.Occurrences {
		summary.Occurrences = []platform.PatternOccurrence{}
	}

	return jsonResult(summary)
}

func (s *Server) scan(ctx context.Context, params scanParams) (*platform.ProjectSummary, error) {
	if params.Path != "" {
		return s.scanner.Scan(ctx, []string{params.Path})
	}

	tally, err := s.scanner.AnalyzeSource(ctx, params.Filename, []byte(params.Code))
	if err != nil {
		return nil, err
	}

	return platform.Aggregate([]*platform.FileTally{tally}, nil), nil
}

func (s *Server) handleSignatures(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type signatureInfo struct {
		ID       string `json:"id"`
		Kind     string `json:"kind"`
		Category string `json:"category"`
		Matcher  string `json:"matcher"`
		Reason   string `json:"reason"`
	}

	signatures := s.registry.Signatures()
	infos := make([]signatureInfo, 0, len(signatures))

	for _, sig := range signatures {
		infos = append(infos, signatureInfo{
			ID:       sig.ID,
			Kind:     string(sig.Kind),
			Category: string(sig.Category),
			Matcher:  sig.Matcher(),
			Reason:   sig.Reason,
		})
	}

	return jsonResult(map[string]any{"signatures": infos})
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
	}
}
