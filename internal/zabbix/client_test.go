package zabbix

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// rpcCall is a request as seen by the fake Zabbix server.
type rpcCall struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Auth   string          `json:"auth"`
	ID     int64           `json:"id"`
	Bearer string          `json:"-"`
}

// fakeZabbix is a minimal JSON-RPC endpoint. handle returns either a result
// or an API error for each call.
type fakeZabbix struct {
	mu     sync.Mutex
	calls  []rpcCall
	handle func(c rpcCall) (any, *APIError)
}

func newFakeZabbix(t *testing.T, handle func(c rpcCall) (any, *APIError)) (*httptest.Server, *fakeZabbix) {
	t.Helper()
	f := &fakeZabbix{handle: handle}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c rpcCall
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.Bearer = r.Header.Get("Authorization")
		f.mu.Lock()
		f.calls = append(f.calls, c)
		f.mu.Unlock()

		result, apiErr := f.handle(c)
		resp := map[string]any{"jsonrpc": "2.0", "id": c.ID}
		if apiErr != nil {
			resp["error"] = apiErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, f
}

func (f *fakeZabbix) methodCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *fakeZabbix) lastCall() rpcCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg, zaptest.NewLogger(t))
}

func TestClient_Call_DecodesResult(t *testing.T) {
	srv, fake := newFakeZabbix(t, func(c rpcCall) (any, *APIError) {
		return []map[string]string{{"hostid": "10084", "name": "Zabbix server"}}, nil
	})
	client := testClient(t, srv.URL)

	var hosts []Host
	err := client.Call(context.Background(), "host.get", map[string]any{"output": "extend"}, "tok", &hosts)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "10084", hosts[0].HostID)
	assert.Equal(t, "Zabbix server", hosts[0].Name)

	call := fake.lastCall()
	assert.Equal(t, "host.get", call.Method)
	assert.Equal(t, "tok", call.Auth)
	assert.Empty(t, call.Bearer)
}

func TestClient_Call_RequestIDsIncrease(t *testing.T) {
	srv, fake := newFakeZabbix(t, func(rpcCall) (any, *APIError) { return true, nil })
	client := testClient(t, srv.URL)

	for range 3 {
		require.NoError(t, client.Call(context.Background(), "apiinfo.version", []any{}, "", nil))
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.calls, 3)
	assert.Less(t, fake.calls[0].ID, fake.calls[1].ID)
	assert.Less(t, fake.calls[1].ID, fake.calls[2].ID)
}

func TestClient_Call_APIError(t *testing.T) {
	srv, _ := newFakeZabbix(t, func(rpcCall) (any, *APIError) {
		return nil, &APIError{Code: -32602, Message: "Invalid params.", Data: "Incorrect method."}
	})
	client := testClient(t, srv.URL)

	err := client.Call(context.Background(), "item.get", map[string]any{}, "tok", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, -32602, apiErr.Code)
	assert.Contains(t, err.Error(), "Incorrect method.")
}

func TestClient_Call_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()
	client := testClient(t, srv.URL)

	err := client.Call(context.Background(), "host.get", map[string]any{}, "tok", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestClient_Call_BearerAuth(t *testing.T) {
	srv, fake := newFakeZabbix(t, func(rpcCall) (any, *APIError) { return []any{}, nil })
	cfg := DefaultConfig()
	cfg.URL = srv.URL
	cfg.BearerAuth = true
	client := NewClient(cfg, zaptest.NewLogger(t))

	require.NoError(t, client.Call(context.Background(), "host.get", map[string]any{}, "secret", nil))

	call := fake.lastCall()
	assert.Empty(t, call.Auth)
	assert.Equal(t, "Bearer secret", call.Bearer)
}

func TestClient_Call_ContextCancelled(t *testing.T) {
	srv, _ := newFakeZabbix(t, func(rpcCall) (any, *APIError) { return true, nil })
	client := testClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := client.Call(ctx, "host.get", nil, "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
