// Package mcp exposes the anagram index to AI clients over the Model Context
// Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Aman-CERP/anagrams/internal/errors"
)

// Custom MCP error codes.
const (
	// ErrCodeIndexNotReady indicates no index has been published yet.
	ErrCodeIndexNotReady = -32001

	// ErrCodeDictionaryUnavailable indicates the word list could not be read.
	ErrCodeDictionaryUnavailable = -32002

	// ErrCodeTimeout indicates the request timed out or was canceled.
	ErrCodeTimeout = -32003

	// Standard JSON-RPC error codes.
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// ErrIndexNotReady is returned by tools called before an index is published.
var ErrIndexNotReady = errors.New("index not ready")

// MCPError is an error with an MCP/JSON-RPC code.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	if ae, ok := apperrors.As(err); ok {
		return mapAppError(ae)
	}

	switch {
	case errors.Is(err, ErrIndexNotReady):
		return &MCPError{Code: ErrCodeIndexNotReady, Message: "Index is not built yet."}
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

func mapAppError(ae *apperrors.AppError) *MCPError {
	msg := ae.Message
	if ae.Suggestion != "" {
		msg += " " + ae.Suggestion
	}

	switch ae.Category {
	case apperrors.CategoryIO:
		return &MCPError{Code: ErrCodeDictionaryUnavailable, Message: msg}
	case apperrors.CategoryValidation:
		return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: msg}
	}
}

// NewInvalidParamsError creates an error for invalid tool arguments.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("Tool '%s' not found.", name)}
}
