package jsonrpc

import "context"

// Handler defines the interface for handling JSON-RPC messages.
// The boolean reports whether a response should be emitted; it is
// false for notifications, which never produce output.
type Handler interface {
	Handle(ctx context.Context, request Request) (Response, bool)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, request Request) (Response, bool)

func (f HandlerFunc) Handle(ctx context.Context, request Request) (Response, bool) {
	return f(ctx, request)
}
