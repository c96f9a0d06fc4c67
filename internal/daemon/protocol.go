package daemon

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/telemetry"
)

// JSON-RPC 2.0 method names.
const (
	MethodLookup = "lookup"
	MethodGroups = "groups"
	MethodStatus = "status"
	MethodPing   = "ping"
	MethodReload = "reload"
)

// Standard JSON-RPC 2.0 error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// Daemon-specific error codes.
const (
	ErrCodeReloadFailed = -32001
	ErrCodeNotReady     = -32002
)

// MaxLookupWords bounds a single lookup request.
const MaxLookupWords = 1000

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      string `json:"id"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      string `json:"id"`
}

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code: %d)", e.Message, e.Code)
}

// NewSuccessResponse creates a successful response.
func NewSuccessResponse(id string, result any) Response {
	return Response{JSONRPC: "2.0", Result: result, ID: id}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id string, code int, message string) Response {
	return Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	}
}

// LookupParams are the parameters for the lookup method.
type LookupParams struct {
	// Words are looked up independently; results keep this order.
	Words []string `json:"words"`
}

// Validate rejects empty and oversized requests and blank words.
func (p *LookupParams) Validate() error {
	if len(p.Words) == 0 {
		return fmt.Errorf("words is required")
	}
	if len(p.Words) > MaxLookupWords {
		return fmt.Errorf("at most %d words per request, got %d", MaxLookupWords, len(p.Words))
	}
	for i, w := range p.Words {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("words[%d] is empty", i)
		}
	}
	return nil
}

// WordResult is the anagram group for one query word.
type WordResult struct {
	Query    string   `json:"query"`
	Key      string   `json:"key"`
	Anagrams []string `json:"anagrams"`
}

// LookupResult is the response to a lookup request.
type LookupResult struct {
	Results []WordResult `json:"results"`
}

// GroupsParams are the parameters for the groups method.
type GroupsParams struct {
	// MinSize drops smaller groups. Default: 2
	MinSize int `json:"min_size,omitempty"`
	// Limit caps the number of groups returned; 0 means no cap.
	Limit int `json:"limit,omitempty"`
}

// Validate applies defaults and rejects negative values.
func (p *GroupsParams) Validate() error {
	if p.MinSize < 0 || p.Limit < 0 {
		return fmt.Errorf("min_size and limit must not be negative")
	}
	if p.MinSize == 0 {
		p.MinSize = 2
	}
	return nil
}

// GroupsResult is the response to a groups request. Total counts every
// matching group before Limit is applied.
type GroupsResult struct {
	Groups []anagram.Group `json:"groups"`
	Total  int             `json:"total"`
}

// StatusResult contains daemon status information.
type StatusResult struct {
	Running   bool               `json:"running"`
	PID       int                `json:"pid"`
	Uptime    string             `json:"uptime"`
	Index     anagram.Stats      `json:"index"`
	Origin    dictionary.Origin  `json:"origin"`
	Reloads   int64              `json:"reloads"`
	Watching  bool               `json:"watching"`
	Telemetry telemetry.Snapshot `json:"telemetry"`
}

// ReloadResult is the response to a reload request.
type ReloadResult struct {
	Index  anagram.Stats     `json:"index"`
	Origin dictionary.Origin `json:"origin"`
}

// PingResult is the response to a ping request.
type PingResult struct {
	Pong bool `json:"pong"`
}
