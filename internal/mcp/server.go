package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/telemetry"
	"github.com/Aman-CERP/anagrams/pkg/version"
)

// ServerName is reported to MCP clients.
const ServerName = "anagrams"

// Server is the MCP server. It reads from a Holder so the index can be
// republished without restarting the session.
type Server struct {
	mcp     *mcp.Server
	holder  *anagram.Holder
	origin  dictionary.Origin
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name:        "anagrams",
		Description: "Find every dictionary word that uses exactly the same letters as the given word. Case and surrounding whitespace are ignored. Returns an empty list when there are none.",
	},
	{
		Name:        "anagram_groups",
		Description: "List groups of dictionary words that are anagrams of each other, in order of first appearance in the dictionary.",
	},
	{
		Name:        "dictionary_status",
		Description: "Report whether the anagram index is ready, how many words and groups it holds, where the dictionary came from and lookup telemetry.",
	},
}

// NewServer creates an MCP server over holder. metrics may be nil.
func NewServer(holder *anagram.Holder, origin dictionary.Origin, metrics *telemetry.Metrics) (*Server, error) {
	if holder == nil {
		return nil, errors.New("index holder is required")
	}

	s := &Server{
		holder:  holder,
		origin:  origin,
		metrics: metrics,
		logger:  slog.Default(),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.Version,
	}, nil)

	s.registerTools()
	s.registerResources()
	return s, nil
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// ListTools returns the registered tools.
func (s *Server) ListTools() []ToolInfo {
	return append([]ToolInfo(nil), tools...)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[0].Name, Description: tools[0].Description}, s.anagramsHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[1].Name, Description: tools[1].Description}, s.groupsHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[2].Name, Description: tools[2].Description}, s.statusHandler)
	s.logger.Debug("mcp_tools_registered", slog.Int("count", len(tools)))
}

func (s *Server) index() (*anagram.Index, error) {
	idx := s.holder.Load()
	if idx == nil {
		return nil, ErrIndexNotReady
	}
	return idx, nil
}

func (s *Server) anagramsHandler(_ context.Context, _ *mcp.CallToolRequest, input AnagramsInput) (
	*mcp.CallToolResult,
	AnagramsOutput,
	error,
) {
	queries := input.Words
	if strings.TrimSpace(input.Word) != "" {
		queries = append([]string{input.Word}, queries...)
	}
	if len(queries) == 0 {
		return nil, AnagramsOutput{}, NewInvalidParamsError("word or words is required")
	}
	if len(queries) > maxWordsPerCall {
		return nil, AnagramsOutput{}, NewInvalidParamsError(fmt.Sprintf("at most %d words per call", maxWordsPerCall))
	}

	idx, err := s.index()
	if err != nil {
		return nil, AnagramsOutput{}, MapError(err)
	}

	out := AnagramsOutput{Results: make([]AnagramResult, 0, len(queries))}
	for _, q := range queries {
		start := time.Now()
		key := anagram.Key(q)
		group := idx.LookupKey(key)
		s.metrics.Record(telemetry.LookupEvent{Query: q, Key: key, Results: len(group), Latency: time.Since(start)})
		out.Results = append(out.Results, AnagramResult{Query: q, Key: key, Anagrams: group, Count: len(group)})
	}
	return nil, out, nil
}

func (s *Server) groupsHandler(_ context.Context, _ *mcp.CallToolRequest, input GroupsInput) (
	*mcp.CallToolResult,
	GroupsOutput,
	error,
) {
	if input.MinSize < 0 || input.Limit < 0 {
		return nil, GroupsOutput{}, NewInvalidParamsError("min_size and limit must not be negative")
	}
	minSize := input.MinSize
	if minSize == 0 {
		minSize = 2
	}
	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	idx, err := s.index()
	if err != nil {
		return nil, GroupsOutput{}, MapError(err)
	}

	groups := idx.Groups(minSize)
	out := GroupsOutput{Groups: groups, Total: len(groups)}
	if len(groups) > limit {
		out.Groups = groups[:limit]
	}
	return nil, out, nil
}

func (s *Server) statusHandler(_ context.Context, _ *mcp.CallToolRequest, _ StatusInput) (
	*mcp.CallToolResult,
	StatusOutput,
	error,
) {
	return nil, s.status(), nil
}

func (s *Server) status() StatusOutput {
	idx := s.holder.Load()
	return StatusOutput{
		Ready:     idx != nil,
		Index:     idx.Stats(),
		Origin:    s.origin,
		Telemetry: s.metrics.Snapshot(),
	}
}

// Serve runs the server on transport until ctx is done. Only stdio is
// supported.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("mcp_server_starting", slog.String("transport", transport))

	switch transport {
	case "stdio", "":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
			return err
		}
		s.logger.Info("mcp_server_stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}
