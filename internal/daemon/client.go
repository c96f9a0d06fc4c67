package daemon

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/Aman-CERP/anagrams/internal/errors"
)

// Client talks to a running daemon. Each call opens its own connection.
type Client struct {
	socketPath string
	timeout    time.Duration
	requestID  atomic.Uint64
}

// NewClient creates a daemon client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{socketPath: cfg.SocketPath, timeout: timeout}
}

// Connect dials the daemon socket.
func (c *Client) Connect() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, errors.DaemonError("failed to connect to daemon", err).
			WithDetail("socket", c.socketPath)
	}
	return conn, nil
}

// IsRunning reports whether the daemon accepts connections.
func (c *Client) IsRunning() bool {
	conn, err := c.Connect()
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Ping checks that the daemon answers requests.
func (c *Client) Ping(ctx context.Context) error {
	var result PingResult
	return c.call(ctx, MethodPing, nil, &result)
}

// Lookup returns the anagram group of each word, in order.
func (c *Client) Lookup(ctx context.Context, words []string) (*LookupResult, error) {
	params := LookupParams{Words: words}
	if err := params.Validate(); err != nil {
		return nil, errors.ValidationError("invalid lookup: "+err.Error(), err)
	}

	var result LookupResult
	if err := c.call(ctx, MethodLookup, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Groups lists anagram groups held by the daemon.
func (c *Client) Groups(ctx context.Context, params GroupsParams) (*GroupsResult, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.ValidationError("invalid groups request: "+err.Error(), err)
	}

	var result GroupsResult
	if err := c.call(ctx, MethodGroups, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Status retrieves daemon status.
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	var result StatusResult
	if err := c.call(ctx, MethodStatus, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reload asks the daemon to rebuild its index from the dictionary.
func (c *Client) Reload(ctx context.Context) (*ReloadResult, error) {
	var result ReloadResult
	if err := c.call(ctx, MethodReload, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) call(ctx context.Context, method string, params, out any) error {
	conn, err := c.Connect()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set deadline: %w", err)
	}

	req := Request{JSONRPC: "2.0", Method: method, Params: params, ID: c.nextID()}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return transportError("failed to send request", err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
		Error  *Error          `json:"error"`
		ID     string          `json:"id"`
	}
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return transportError("failed to receive response", err)
	}
	if resp.Error != nil {
		return fmt.Errorf("%s failed: %w", method, resp.Error)
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

func transportError(msg string, err error) error {
	if stderrors.Is(err, os.ErrDeadlineExceeded) {
		return errors.New(errors.ErrCodeDaemonTimeout, "daemon did not answer in time", err)
	}
	return errors.DaemonError(msg, err)
}

func (c *Client) nextID() string {
	return fmt.Sprintf("req-%d", c.requestID.Add(1))
}
