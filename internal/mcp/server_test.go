package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	apperrors "github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/telemetry"
)

var fixture = []string{"palest", "pastel", "petals", "plates", "staple", "ate", "eat", "tea", "zebra", "a"}

func newTestServer(t *testing.T) (*Server, *telemetry.Metrics) {
	t.Helper()
	metrics := telemetry.New(telemetry.Config{})
	s, err := NewServer(anagram.NewHolder(anagram.Build(fixture)), dictionary.Origin{Sources: []string{"fixture"}, Words: len(fixture)}, metrics)
	require.NoError(t, err)
	return s, metrics
}

func TestNewServer_RequiresHolder(t *testing.T) {
	_, err := NewServer(nil, dictionary.Origin{}, nil)
	require.Error(t, err)
}

func TestListTools(t *testing.T) {
	s, _ := newTestServer(t)

	names := make([]string, 0)
	for _, tool := range s.ListTools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"anagrams", "anagram_groups", "dictionary_status"}, names)
	assert.NotNil(t, s.MCPServer())
}

func TestAnagramsHandler_SingleWord(t *testing.T) {
	s, metrics := newTestServer(t)

	_, out, err := s.anagramsHandler(context.Background(), nil, AnagramsInput{Word: "  PlaTeS "})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)

	r := out.Results[0]
	assert.Equal(t, "  PlaTeS ", r.Query)
	assert.Equal(t, "aelpst", r.Key)
	assert.Equal(t, []string{"palest", "pastel", "petals", "plates", "staple"}, r.Anagrams)
	assert.Equal(t, 5, r.Count)
	assert.Equal(t, int64(1), metrics.Snapshot().TotalLookups)
}

func TestAnagramsHandler_WordAndWords(t *testing.T) {
	s, metrics := newTestServer(t)

	_, out, err := s.anagramsHandler(context.Background(), nil, AnagramsInput{
		Word:  "eat",
		Words: []string{"nonexistentword", "a"},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 3)

	assert.Equal(t, []string{"ate", "eat", "tea"}, out.Results[0].Anagrams)
	assert.NotNil(t, out.Results[1].Anagrams)
	assert.Empty(t, out.Results[1].Anagrams)
	assert.Equal(t, []string{"a"}, out.Results[2].Anagrams)

	assert.Equal(t, "aet", out.Results[0].Key)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(3), snap.TotalLookups)
	assert.Equal(t, int64(1), snap.ZeroResultCount)

	var timed int64
	for _, n := range snap.Latency {
		timed += n
	}
	assert.Equal(t, int64(3), timed)
}

func TestAnagramsHandler_InvalidInput(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name  string
		input AnagramsInput
	}{
		{"empty", AnagramsInput{}},
		{"blank word", AnagramsInput{Word: "   "}},
		{"too many", AnagramsInput{Words: make([]string, maxWordsPerCall+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.anagramsHandler(context.Background(), nil, tt.input)
			var mcpErr *MCPError
			require.ErrorAs(t, err, &mcpErr)
			assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
		})
	}
}

func TestAnagramsHandler_NotReady(t *testing.T) {
	s, err := NewServer(anagram.NewHolder(nil), dictionary.Origin{}, nil)
	require.NoError(t, err)

	_, _, err = s.anagramsHandler(context.Background(), nil, AnagramsInput{Word: "eat"})
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeIndexNotReady, mcpErr.Code)
}

func TestAnagramsHandler_SeesRepublishedIndex(t *testing.T) {
	holder := anagram.NewHolder(anagram.Build([]string{"eat"}))
	s, err := NewServer(holder, dictionary.Origin{}, nil)
	require.NoError(t, err)

	holder.Publish(anagram.Build([]string{"eat", "tea"}))

	_, out, err := s.anagramsHandler(context.Background(), nil, AnagramsInput{Word: "ate"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eat", "tea"}, out.Results[0].Anagrams)
}

func TestGroupsHandler(t *testing.T) {
	s, _ := newTestServer(t)

	_, out, err := s.groupsHandler(context.Background(), nil, GroupsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Groups, 2)
	assert.Equal(t, "aelpst", out.Groups[0].Key)
	assert.Equal(t, "aet", out.Groups[1].Key)

	_, out, err = s.groupsHandler(context.Background(), nil, GroupsInput{MinSize: 1, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Total)
	assert.Len(t, out.Groups, 3)

	_, _, err = s.groupsHandler(context.Background(), nil, GroupsInput{Limit: -1})
	require.Error(t, err)
}

func TestStatusHandler(t *testing.T) {
	s, _ := newTestServer(t)
	_, _, err := s.anagramsHandler(context.Background(), nil, AnagramsInput{Word: "xyz"})
	require.NoError(t, err)

	_, out, err := s.statusHandler(context.Background(), nil, StatusInput{})
	require.NoError(t, err)

	assert.True(t, out.Ready)
	assert.Equal(t, len(fixture), out.Index.Words)
	assert.Equal(t, 4, out.Index.Groups)
	assert.Equal(t, 5, out.Index.LargestGroup)
	assert.Equal(t, []string{"fixture"}, out.Origin.Sources)
	assert.Equal(t, int64(1), out.Telemetry.ZeroResultCount)
}

func TestReadTelemetry(t *testing.T) {
	s, _ := newTestServer(t)
	_, _, err := s.anagramsHandler(context.Background(), nil, AnagramsInput{Words: []string{"eat", "qqq"}})
	require.NoError(t, err)

	res, err := s.readTelemetry(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, TelemetryURI, res.Contents[0].URI)

	var body struct {
		ZeroResultPct float64 `json:"zero_result_pct"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &body))
	assert.InDelta(t, 50.0, body.ZeroResultPct, 0.001)
}

func TestServe_UnknownTransport(t *testing.T) {
	s, _ := newTestServer(t)
	err := s.Serve(context.Background(), "sse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestServer_InMemorySession(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, serverT, nil)
	require.NoError(t, err)
	defer func() { _ = ss.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "anagrams",
		Arguments: map[string]any{"word": "tea"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	var out AnagramsOutput
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	assert.Equal(t, []string{"ate", "eat", "tea"}, out.Results[0].Anagrams)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not ready", ErrIndexNotReady, ErrCodeIndexNotReady},
		{"dictionary missing", apperrors.DictionaryNotFound("/x/words.txt", nil), ErrCodeDictionaryUnavailable},
		{"validation", apperrors.ValidationError("bad", nil), ErrCodeInvalidParams},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeTimeout},
		{"unknown", errors.New("boom"), ErrCodeInternalError},
		{"passthrough", NewMethodNotFoundError("x"), ErrCodeMethodNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code)
		})
	}
	assert.Nil(t, MapError(nil))
}
