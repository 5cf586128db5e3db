package observability

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestEncodePush(t *testing.T) {
	at := time.Unix(1700000000, 42)
	body := encodePush(
		map[string]string{"level": "info", "app": "github-mcp-server"},
		map[string]any{"tool": "list_issues", "duration_ms": int64(12), "ok": true, "err": nil},
		at,
	)

	assert.JSONEq(t, `{"streams":[{
		"stream":{"app":"github-mcp-server","level":"info"},
		"values":[["1700000000000000042","{\"duration_ms\":12,\"err\":null,\"ok\":true,\"tool\":\"list_issues\"}"]]
	}]}`, string(body))

	// Output must be valid JSON for jx as well.
	assert.True(t, jx.Valid(body))
}

func TestPush(t *testing.T) {
	var (
		gotUser, gotKey string
		gotBody         []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loki/api/v1/push", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotUser, gotKey, _ = r.BasicAuth()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := &LokiClient{
		url:        srv.URL + "/loki/api/v1/push",
		username:   "123",
		apiKey:     "secret",
		httpClient: srv.Client(),
		enabled:    true,
		appName:    "test-app",
	}
	c.push(map[string]string{"type": "security"}, map[string]any{"event": "unauthorized"})

	assert.Equal(t, "123", gotUser)
	assert.Equal(t, "secret", gotKey)
	require.NotEmpty(t, gotBody)
	assert.Contains(t, string(gotBody), `"app":"test-app"`)
	assert.Contains(t, string(gotBody), `"type":"security"`)
	assert.Contains(t, string(gotBody), `unauthorized`)
}

func TestInit_WithoutLoki(t *testing.T) {
	Init(Options{AppName: "test-app", Level: slog.LevelError})
	t.Cleanup(func() { defaultClient = &LokiClient{appName: "ghmcp"} })

	assert.False(t, defaultClient.enabled)
	assert.Equal(t, "test-app", defaultClient.appName)

	// Disabled client is a no-op.
	LogSecurityEvent("req-1", "alice", "unauthorized", map[string]any{"path": "/mcp"})
	Push(nil, map[string]any{"k": "v"})
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	LogError("listen", errors.New("address already in use"))

	assert.Contains(t, buf.String(), `"msg":"listen"`)
	assert.Contains(t, buf.String(), `"error":"address already in use"`)
}

func TestInit_WithLoki(t *testing.T) {
	Init(Options{LokiURL: "https://logs.example.com", LokiUser: "1", LokiKey: "k", Level: slog.LevelError})
	t.Cleanup(func() { defaultClient = &LokiClient{appName: "ghmcp"} })

	assert.True(t, defaultClient.enabled)
	assert.Equal(t, "https://logs.example.com/loki/api/v1/push", defaultClient.url)
	assert.Equal(t, "ghmcp", defaultClient.appName)
}
