package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopwork-ai/shopmcp/jsonrpc"
)

// echoHandler responds to every request with its own method name and
// records everything it sees
type echoHandler struct {
	seen []jsonrpc.Request
}

func (h *echoHandler) Handle(_ context.Context, request jsonrpc.Request) (jsonrpc.Response, bool) {
	h.seen = append(h.seen, request)
	if request.IsNotification() {
		return jsonrpc.Response{}, false
	}
	return jsonrpc.NewResponse(request.Id, request.Method, nil), true
}

func runTransport(t *testing.T, handler jsonrpc.Handler, input string, opts ...TransportOption) string {
	t.Helper()

	in := strings.NewReader(input)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	transport := NewStdioTransport(handler, in, out, errOut, opts...)
	require.NoError(t, transport.Run(context.Background()))

	return out.String()
}

func TestTransport_Run(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedOut string
	}{
		{
			name:  "single request",
			input: "{\"jsonrpc\": \"2.0\", \"method\": \"tools/list\", \"id\": 1}\n",
			expectedOut: `{"jsonrpc":"2.0","result":"tools/list","id":1}
`,
		},
		{
			name: "multiple requests answered in order",
			input: "{\"jsonrpc\": \"2.0\", \"method\": \"a\", \"id\": 1}\n" +
				"{\"jsonrpc\": \"2.0\", \"method\": \"b\", \"id\": 2}\n",
			expectedOut: `{"jsonrpc":"2.0","result":"a","id":1}
{"jsonrpc":"2.0","result":"b","id":2}
`,
		},
		{
			name:        "notification produces no output",
			input:       "{\"jsonrpc\": \"2.0\", \"method\": \"notifications/initialized\"}\n",
			expectedOut: "",
		},
		{
			name: "document split across fragments",
			input: "{\"jsonrpc\": \"2.0\",\n" +
				"  \"method\": \"tools/list\",\n" +
				"  \"id\": 1}\n",
			expectedOut: `{"jsonrpc":"2.0","result":"tools/list","id":1}
`,
		},
		{
			name:        "incomplete document at EOF produces no output",
			input:       "{\"jsonrpc\": \"2.0\", \"method\":\n",
			expectedOut: "",
		},
		{
			name:  "complete JSON with invalid shape is rejected",
			input: "\"just a string\"\n",
			expectedOut: `{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid Request","data":"json: cannot unmarshal string into Go value of type jsonrpc.Request"},"id":null}
`,
		},
		{
			name:        "valid object without method or id is dropped as a notification",
			input:       "{\"foo\": 1}\n",
			expectedOut: "",
		},
		{
			name:        "empty input",
			input:       "",
			expectedOut: "",
		},
		{
			name: "blank lines between documents are ignored",
			input: "\n{\"jsonrpc\": \"2.0\", \"method\": \"a\", \"id\": 1}\n\n" +
				"{\"jsonrpc\": \"2.0\", \"method\": \"b\", \"id\": 2}\n",
			expectedOut: `{"jsonrpc":"2.0","result":"a","id":1}
{"jsonrpc":"2.0","result":"b","id":2}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runTransport(t, &echoHandler{}, tt.input)
			assert.Equal(t, tt.expectedOut, out)
		})
	}
}

func TestTransport_FragmentBoundaryIndependence(t *testing.T) {
	document := `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}`

	whole := runTransport(t, &echoHandler{}, document+"\n")

	// Split the same document at several token boundaries; a transport line
	// break never lands inside a string literal
	for _, cut := range []int{1, 11, 18, 28, 42, len(document) - 2} {
		split := document[:cut] + "\n" + document[cut:] + "\n"
		got := runTransport(t, &echoHandler{}, split)
		assert.Equal(t, whole, got, "split at byte %d", cut)
	}
}

func TestTransport_PendingBufferCap(t *testing.T) {
	handler := &echoHandler{}
	input := strings.Repeat("not json ", 10) + "\n" +
		"{\"jsonrpc\": \"2.0\", \"method\": \"tools/list\", \"id\": 1}\n"

	out := runTransport(t, handler, input, WithMaxPendingBytes(16))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	// The oversized garbage is discarded with a parse error
	var response jsonrpc.Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &response))
	require.NotNil(t, response.Error)
	assert.Equal(t, jsonrpc.ErrParse, response.Error.Code)

	// The session resynchronizes and serves the next request
	response = jsonrpc.Response{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &response))
	assert.Nil(t, response.Error)
	assert.Equal(t, 1, response.ID.Value())
}

func TestTransport_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transport := NewStdioTransport(&echoHandler{}, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	err := transport.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
