package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TelemetryURI is the resource URI of the lookup telemetry snapshot.
const TelemetryURI = "anagrams://telemetry"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        "telemetry",
		URI:         TelemetryURI,
		Description: "Lookup counters, most requested keys and recent queries with no anagrams",
		MIMEType:    "application/json",
	}, s.readTelemetry)
}

func (s *Server) readTelemetry(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap := s.metrics.Snapshot()
	body, err := json.MarshalIndent(struct {
		ZeroResultPct float64 `json:"zero_result_pct"`
		Snapshot      any     `json:"snapshot"`
	}{snap.ZeroResultPercentage(), snap}, "", "  ")
	if err != nil {
		return nil, MapError(err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      TelemetryURI,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
