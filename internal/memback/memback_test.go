package memback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relaykit/internal/backend"
)

func dial(t *testing.T, b *Backend) backend.Client {
	t.Helper()
	c, err := b.Dial("mem://test", nil)
	require.NoError(t, err)
	return c
}

func TestBackend_DialCounts(t *testing.T) {
	b := New()
	assert.Equal(t, 0, b.Dials())
	assert.Nil(t, b.LastClient())

	dial(t, b)
	c2 := dial(t, b)

	assert.Equal(t, 2, b.Dials())
	assert.Same(t, c2, b.LastClient())
}

func TestClient_LoginAccepted(t *testing.T) {
	b := New()
	c := dial(t, b)

	var res backend.LoginResult
	c.Login(map[string]any{"user": "demo"}, func(r backend.LoginResult) { res = r })

	assert.True(t, res.Success)
	assert.Nil(t, res.Data)
}

func TestClient_LoginRejected(t *testing.T) {
	b := New()
	b.RejectLogin(map[string]any{"reason": "denied"})
	c := dial(t, b)

	var res backend.LoginResult
	c.Login(nil, func(r backend.LoginResult) { res = r })

	assert.False(t, res.Success)
	assert.Equal(t, map[string]any{"reason": "denied"}, res.Data)
}

func TestClient_RPCBuiltinAdd(t *testing.T) {
	b := New()
	c := dial(t, b)

	tests := []struct {
		name string
		args any
		want any
		err  string
	}{
		{"ints", map[string]any{"a": 2, "b": 3}, int64(5), ""},
		{"floats from decoded json", map[string]any{"a": float64(10), "b": float64(-4)}, int64(6), ""},
		{"missing operand", map[string]any{"a": 1}, nil, "INVALID_ARGS"},
		{"non-numeric operand", map[string]any{"a": "x", "b": 1}, nil, "INVALID_ARGS"},
		{"non-map payload", "nope", nil, "INVALID_ARGS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result any
			var errStr string
			c.RPC("add", tt.args, func(r any, e string) { result, errStr = r, e })
			assert.Equal(t, tt.want, result)
			assert.Equal(t, tt.err, errStr)
		})
	}
}

func TestClient_RPCUnknownMethod(t *testing.T) {
	b := New()
	c := dial(t, b)

	var errStr string
	c.RPC("missing", nil, func(r any, e string) { errStr = e })
	assert.Equal(t, "NO_RPC_PROVIDER", errStr)
}

func TestClient_RPCCustomProvider(t *testing.T) {
	b := New()
	b.ProvideRPC("echo", func(data any) (any, string) { return data, "" })
	c := dial(t, b)

	var result any
	c.RPC("echo", "ping", func(r any, e string) { result = r })
	assert.Equal(t, "ping", result)
}

func TestClient_ClosedClientIsInert(t *testing.T) {
	b := New()
	c := b.LastClient()
	require.Nil(t, c)

	dial(t, b)
	mc := b.LastClient()

	fired := false
	mc.OnError(func(string) { fired = true })
	mc.Close()

	mc.InjectError("late")
	assert.False(t, fired, "callbacks through a closed client never fire")

	loginCalled := false
	mc.Login(nil, func(backend.LoginResult) { loginCalled = true })
	assert.False(t, loginCalled)
}

func TestClient_StateIsSharedAcrossClients(t *testing.T) {
	b := New()
	c1 := dial(t, b)
	c2 := dial(t, b)

	c1.Record("user/1").Set(map[string]any{"v": 1})

	var got any
	c2.Snapshot("user/1", func(data any, err string) {
		require.Empty(t, err)
		got = data
	})
	assert.Equal(t, map[string]any{"v": 1}, got)
}
