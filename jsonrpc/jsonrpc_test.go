package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIsNotification(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "request with numeric id",
			input: `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}`,
			want:  false,
		},
		{
			name:  "request with string id",
			input: `{"jsonrpc": "2.0", "method": "tools/list", "id": "abc"}`,
			want:  false,
		},
		{
			name:  "notification without id",
			input: `{"jsonrpc": "2.0", "method": "notifications/initialized"}`,
			want:  true,
		},
		{
			name:  "notification with null id",
			input: `{"jsonrpc": "2.0", "method": "notifications/initialized", "id": null}`,
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var request Request
			require.NoError(t, json.Unmarshal([]byte(tt.input), &request))
			assert.Equal(t, tt.want, request.IsNotification())
		})
	}
}

func TestIDRoundTrip(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`42`), &id))
	assert.Equal(t, 42, id.Value())

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `42`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &id))
	assert.Equal(t, "abc", id.Value())

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &id))
}

func TestIDNull(t *testing.T) {
	// An absent id serializes as null, never a surrogate value
	data, err := json.Marshal(ID{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))

	var id ID
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Nil(t, id.Value())

	// The construction path still rejects null ids outright
	_, err = NewID(nil)
	assert.Error(t, err)
}

func TestResponseWithoutID(t *testing.T) {
	response := NewResponse(nil, nil, NewError(ErrParse, "bad input"))
	data, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32700,"message":"Parse error","data":"bad input"},"id":null}`, string(data))
}

func TestResponseSerialization(t *testing.T) {
	response := NewResponse(1, map[string]interface{}{"ok": true}, nil)
	data, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":{"ok":true},"id":1}`, string(data))

	response = NewResponse("abc", nil, NewError(ErrMethodNotFound, nil))
	data, err = json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32601,"message":"Method not found"},"id":"abc"}`, string(data))
}

func TestNewError(t *testing.T) {
	assert.Equal(t, "Invalid params", NewError(ErrInvalidParams, nil).Message)
	assert.Equal(t, "Internal error", NewError(ErrInternal, nil).Message)
	assert.Equal(t, "Server error", NewError(ErrorCode(-32050), nil).Message)
	assert.Equal(t, "Unknown error", NewError(ErrorCode(-1), nil).Message)
}
