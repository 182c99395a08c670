package jsonrpc

import (
	"fmt"
)

// ErrorCode represents a JSON-RPC error code.
// Clients branch on these values, so they must remain stable across versions.
type ErrorCode int

// Error codes defined by JSON-RPC 2.0 (https://www.jsonrpc.org/specification)
const (
	// ErrParse: invalid JSON was received by the server (-32700)
	ErrParse ErrorCode = -32700

	// ErrInvalidRequest: the JSON sent is not a valid Request object (-32600)
	ErrInvalidRequest ErrorCode = -32600

	// ErrMethodNotFound: the method or tool does not exist (-32601)
	ErrMethodNotFound ErrorCode = -32601

	// ErrInvalidParams: invalid method parameter(s) (-32602)
	ErrInvalidParams ErrorCode = -32602

	// ErrInternal: internal JSON-RPC error (-32603)
	ErrInternal ErrorCode = -32603

	// ErrServer: start of the range reserved for implementation-defined
	// server errors (-32000 to -32099)
	ErrServer ErrorCode = -32000
)

// StandardMessage returns the message JSON-RPC 2.0 assigns to the code
func (c ErrorCode) StandardMessage() string {
	switch c {
	case ErrParse:
		return "Parse error"
	case ErrInvalidRequest:
		return "Invalid Request"
	case ErrMethodNotFound:
		return "Method not found"
	case ErrInvalidParams:
		return "Invalid params"
	case ErrInternal:
		return "Internal error"
	}
	if c >= -32099 && c <= -32000 {
		return "Server error"
	}
	return "Unknown error"
}

// Error represents a JSON-RPC error object
type Error struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var _ error = &Error{}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewError creates a JSON-RPC error carrying the code's standard message
// and optional diagnostic data
func NewError(code ErrorCode, data interface{}) *Error {
	return &Error{
		Code:    code,
		Message: code.StandardMessage(),
		Data:    data,
	}
}
