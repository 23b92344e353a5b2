package httpclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer creates a test HTTP server and registers cleanup.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestTransport(t *testing.T, cfg *Config) *Transport {
	t.Helper()
	tr := New(cfg)
	t.Cleanup(tr.CloseIdleConnections)
	return tr
}

func TestNewAppliesDefaults(t *testing.T) {
	tr := newTestTransport(t, &Config{MaxIdleConnsPerHost: 3})
	assert.Equal(t, 3, tr.base.MaxIdleConnsPerHost)
	assert.Equal(t, defaultMaxIdleConns, tr.base.MaxIdleConns)
	assert.Equal(t, defaultResponseHeaderTimeout, tr.base.ResponseHeaderTimeout)

	tr = newTestTransport(t, nil)
	assert.Equal(t, defaultMaxIdleConnsPerHost, tr.base.MaxIdleConnsPerHost)
}

func TestRoundTripCallsHook(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "ok")
	})

	tr := newTestTransport(t, nil)
	var calls atomic.Int32
	var status atomic.Int32
	tr.SetAfterResponseHook(func(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		calls.Add(1)
		if err == nil {
			status.Store(int32(resp.StatusCode))
		}
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	})

	client := &http.Client{Transport: tr}
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(http.StatusTeapot), status.Load())
}

func TestRoundTripReportsErrors(t *testing.T) {
	server := newTestServer(t, func(http.ResponseWriter, *http.Request) {})
	url := server.URL
	server.Close()

	tr := newTestTransport(t, nil)
	var gotErr atomic.Bool
	tr.SetAfterResponseHook(func(_ *http.Request, _ *http.Response, err error, _ time.Duration) {
		gotErr.Store(err != nil)
	})

	_, err := (&http.Client{Transport: tr}).Get(url)
	require.Error(t, err)
	assert.True(t, gotErr.Load())
}
