package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/loopwork-ai/shopmcp/jsonrpc"
)

// DefaultMaxPendingBytes caps the accumulation buffer. A pending document
// that grows past this without becoming valid JSON is discarded with a
// parse error so one garbage frame cannot wedge the session.
const DefaultMaxPendingBytes = 10 * 1024 * 1024

// Transport handles the communication between stdin/stdout and the MCP server.
// Input is newline-delimited JSON; a single document may span multiple lines,
// so fragments accumulate until the buffer parses as one complete document.
type Transport struct {
	handler    jsonrpc.Handler
	scanner    *bufio.Scanner
	writer     *json.Encoder
	bufOut     *bufio.Writer
	errOut     io.Writer
	pending    []byte
	maxPending int
}

// TransportOption configures a Transport
type TransportOption func(*Transport)

// WithMaxPendingBytes overrides the accumulation buffer cap
func WithMaxPendingBytes(n int) TransportOption {
	return func(t *Transport) {
		if n > 0 {
			t.maxPending = n
		}
	}
}

// NewStdioTransport creates a new stdio transport
func NewStdioTransport(handler jsonrpc.Handler, in io.Reader, out io.Writer, errOut io.Writer, opts ...TransportOption) *Transport {
	scanner := bufio.NewScanner(in)
	// Set a reasonable max size for each line
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	bufOut := bufio.NewWriter(out)
	t := &Transport{
		handler:    handler,
		scanner:    scanner,
		writer:     json.NewEncoder(bufOut),
		bufOut:     bufOut,
		errOut:     errOut,
		maxPending: DefaultMaxPendingBytes,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run starts the transport loop, reading from stdin and writing to stdout.
// It returns nil when the input stream closes cleanly. Each document is
// processed to completion before the next is read, so responses are emitted
// in dispatch order.
func (t *Transport) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if !t.scanner.Scan() {
				if err := t.scanner.Err(); err != nil {
					return fmt.Errorf("scanner error: %v", err)
				}
				return nil
			}

			line := t.scanner.Bytes()
			if len(t.pending) == 0 && len(line) == 0 {
				continue
			}

			if len(t.pending) > 0 {
				t.pending = append(t.pending, '\n')
			}
			t.pending = append(t.pending, line...)

			if !json.Valid(t.pending) {
				// Incomplete document: keep accumulating, bounded by the cap.
				if len(t.pending) > t.maxPending {
					fmt.Fprintf(t.errOut, "Discarding %d pending bytes that never became valid JSON\n", len(t.pending))
					t.pending = t.pending[:0]
					t.emit(jsonrpc.NewResponse(nil, nil, jsonrpc.NewError(jsonrpc.ErrParse, "pending input exceeded maximum size")))
				}
				continue
			}

			document := t.pending
			t.pending = nil

			var request jsonrpc.Request
			if err := json.Unmarshal(document, &request); err != nil {
				// Complete JSON, wrong shape: rejected here rather than buffered.
				t.emit(jsonrpc.NewResponse(nil, nil, jsonrpc.NewError(jsonrpc.ErrInvalidRequest, err.Error())))
				continue
			}

			if response, ok := t.handler.Handle(ctx, request); ok {
				t.emit(response)
			}
		}
	}
}

// emit writes one response as a single newline-terminated JSON document
func (t *Transport) emit(response jsonrpc.Response) {
	if err := t.writer.Encode(response); err != nil {
		fmt.Fprintf(t.errOut, "Error encoding response: %v\n", err)
	}
	t.bufOut.Flush()
}
