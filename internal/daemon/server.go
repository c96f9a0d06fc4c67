package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"
)

// Handler answers the index-backed RPC methods.
type Handler interface {
	Lookup(ctx context.Context, params LookupParams) (LookupResult, error)
	Groups(ctx context.Context, params GroupsParams) (GroupsResult, error)
	Reload(ctx context.Context) (ReloadResult, error)
	Status() StatusResult
}

// Server listens on a Unix socket and answers one JSON-RPC request per
// connection.
type Server struct {
	socketPath string
	timeout    time.Duration
	listener   net.Listener
	handler    Handler
	started    time.Time

	mu       sync.Mutex
	shutdown bool
	ready    chan struct{}
	wg       sync.WaitGroup
}

// NewServer creates a server for socketPath. A non-positive timeout
// defaults to 30s per connection.
func NewServer(socketPath string, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		socketPath: socketPath,
		timeout:    timeout,
		ready:      make(chan struct{}),
	}
}

// SetHandler sets the handler for lookup, groups, reload and status.
func (s *Server) SetHandler(h Handler) {
	s.handler = h
}

// Ready is closed once the socket is accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// ListenAndServe serves until ctx is cancelled or Close is called, then
// waits for in-flight connections.
func (s *Server) ListenAndServe(ctx context.Context) error {
	// A stale socket from a crashed daemon would make Listen fail.
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.socketPath, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.started = time.Now()
	if s.shutdown {
		_ = listener.Close()
	}
	s.mu.Unlock()
	close(s.ready)

	defer func() {
		_ = listener.Close()
		_ = os.Remove(s.socketPath)
	}()

	slog.Info("daemon_listening", slog.String("socket", s.socketPath))

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isShutdown() {
				break
			}
			slog.Error("accept_failed", slog.String("error", err.Error()))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.wg.Wait()
	return ctx.Err()
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		slog.Warn("set_deadline_failed", slog.String("error", err.Error()))
	}

	encoder := json.NewEncoder(conn)

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		_ = encoder.Encode(NewErrorResponse("", ErrCodeParseError, "failed to parse request"))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp := s.handleRequest(reqCtx, req)
	slog.Debug("rpc_handled",
		slog.String("method", req.Method),
		slog.String("id", req.ID),
		slog.Bool("error", resp.Error != nil),
		slog.Duration("duration", time.Since(start)))

	_ = encoder.Encode(resp)
}

func (s *Server) handleRequest(ctx context.Context, req Request) Response {
	if req.JSONRPC != "" && req.JSONRPC != "2.0" {
		return NewErrorResponse(req.ID, ErrCodeInvalidRequest, "jsonrpc must be \"2.0\"")
	}

	switch req.Method {
	case MethodPing:
		return NewSuccessResponse(req.ID, PingResult{Pong: true})
	case MethodStatus:
		return NewSuccessResponse(req.ID, s.status())
	}

	if s.handler == nil {
		return NewErrorResponse(req.ID, ErrCodeNotReady, "daemon has no index loaded")
	}

	switch req.Method {
	case MethodLookup:
		var params LookupParams
		if resp, ok := decodeParams(req, &params); !ok {
			return resp
		}
		if err := params.Validate(); err != nil {
			return NewErrorResponse(req.ID, ErrCodeInvalidParams, err.Error())
		}
		result, err := s.handler.Lookup(ctx, params)
		if err != nil {
			return NewErrorResponse(req.ID, ErrCodeInternalError, err.Error())
		}
		return NewSuccessResponse(req.ID, result)

	case MethodGroups:
		var params GroupsParams
		if resp, ok := decodeParams(req, &params); !ok {
			return resp
		}
		if err := params.Validate(); err != nil {
			return NewErrorResponse(req.ID, ErrCodeInvalidParams, err.Error())
		}
		result, err := s.handler.Groups(ctx, params)
		if err != nil {
			return NewErrorResponse(req.ID, ErrCodeInternalError, err.Error())
		}
		return NewSuccessResponse(req.ID, result)

	case MethodReload:
		result, err := s.handler.Reload(ctx)
		if err != nil {
			return NewErrorResponse(req.ID, ErrCodeReloadFailed, err.Error())
		}
		return NewSuccessResponse(req.ID, result)

	default:
		return NewErrorResponse(req.ID, ErrCodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

// decodeParams round-trips the generic params value into out.
func decodeParams(req Request, out any) (Response, bool) {
	if req.Params == nil {
		return Response{}, true
	}
	data, err := json.Marshal(req.Params)
	if err != nil {
		return NewErrorResponse(req.ID, ErrCodeInvalidParams, "failed to encode params"), false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewErrorResponse(req.ID, ErrCodeInvalidParams, "failed to decode params"), false
	}
	return Response{}, true
}

func (s *Server) status() StatusResult {
	var status StatusResult
	if s.handler != nil {
		status = s.handler.Status()
	}

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	status.Running = true
	status.PID = os.Getpid()
	status.Uptime = time.Since(started).Round(time.Second).String()
	return status
}

// Close stops accepting connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return nil
	}
	s.shutdown = true
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
