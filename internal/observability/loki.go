package observability

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/jx"
)

// Options configures logging and the optional Loki sink.
type Options struct {
	AppName  string
	Level    slog.Level
	LokiURL  string
	LokiUser string
	LokiKey  string
}

type LokiClient struct {
	url        string
	username   string
	apiKey     string
	httpClient *http.Client
	enabled    bool
	appName    string
}

var defaultClient = &LokiClient{appName: "ghmcp"}

// Init installs the process logger and the Loki client. Logs go to stderr
// because stdout carries the stdio transport.
func Init(opts Options) {
	initLogger(opts.Level)

	appName := opts.AppName
	if appName == "" {
		appName = "ghmcp"
	}

	if opts.LokiURL == "" || opts.LokiUser == "" || opts.LokiKey == "" {
		slog.Debug("Loki not configured, remote logging disabled")
		defaultClient = &LokiClient{enabled: false, appName: appName}
		return
	}

	defaultClient = &LokiClient{
		url:        opts.LokiURL + "/loki/api/v1/push",
		username:   opts.LokiUser,
		apiKey:     opts.LokiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		enabled:    true,
		appName:    appName,
	}
	slog.Info("Loki client initialized", "url", opts.LokiURL)
}

// Push sends one log line to Loki in the background.
func Push(labels map[string]string, data map[string]any) {
	if defaultClient == nil || !defaultClient.enabled {
		return
	}

	go defaultClient.push(labels, data)
}

func (c *LokiClient) push(labels map[string]string, data map[string]any) {
	if labels == nil {
		labels = make(map[string]string)
	}
	labels["app"] = c.appName

	body := encodePush(labels, data, time.Now())

	httpReq, err := http.NewRequest("POST", c.url, bytes.NewReader(body))
	if err != nil {
		slog.Warn("Loki: failed to create request", "error", err)
		return
	}

	httpReq.SetBasicAuth(c.username, c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("Loki: failed to send", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("Loki: unexpected status code", "status", resp.StatusCode)
	}
}

// encodePush builds a Loki push request body:
// {"streams":[{"stream":{labels},"values":[["<ns>","<json line>"]]}]}
func encodePush(labels map[string]string, data map[string]any, at time.Time) []byte {
	var line jx.Encoder
	line.ObjStart()
	for _, k := range sortedKeys(data) {
		line.FieldStart(k)
		encodeValue(&line, data[k])
	}
	line.ObjEnd()

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("streams")
	e.ArrStart()
	e.ObjStart()
	e.FieldStart("stream")
	e.ObjStart()
	for _, k := range sortedKeys(labels) {
		e.FieldStart(k)
		e.Str(labels[k])
	}
	e.ObjEnd()
	e.FieldStart("values")
	e.ArrStart()
	e.ArrStart()
	e.Str(strconv.FormatInt(at.UnixNano(), 10))
	e.Str(line.String())
	e.ArrEnd()
	e.ArrEnd()
	e.ObjEnd()
	e.ArrEnd()
	e.ObjEnd()
	return e.Bytes()
}

func encodeValue(e *jx.Encoder, v any) {
	switch v := v.(type) {
	case string:
		e.Str(v)
	case int:
		e.Int(v)
	case int64:
		e.Int64(v)
	case bool:
		e.Bool(v)
	case nil:
		e.Null()
	default:
		e.Str(slog.AnyValue(v).String())
	}
}

// LogToolCall records the outcome of one tool invocation.
func LogToolCall(ctx context.Context, module, tool string, durationMs int64, status string, errMsg string) {
	level := "info"
	if status != "success" {
		level = "error"
	}

	attrs := []any{"module", module, "tool", tool, "duration_ms", durationMs, "status", status}
	if errMsg != "" {
		attrs = append(attrs, "error", errMsg)
		slog.WarnContext(ctx, "tool call failed", attrs...)
	} else {
		slog.InfoContext(ctx, "tool call", attrs...)
	}
	recordToolCall(ctx, module, tool, status)

	data := map[string]any{
		"module":      module,
		"tool":        tool,
		"duration_ms": durationMs,
		"status":      status,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	Push(map[string]string{"module": module, "status": status, "level": level}, data)
}

// LogResourceRead records one resource read.
func LogResourceRead(ctx context.Context, module, uri string, durationMs int64, mimeType string) {
	slog.InfoContext(ctx, "resource read", "module", module, "uri", uri, "duration_ms", durationMs, "mime_type", mimeType)
	Push(map[string]string{"type": "resource", "module": module, "level": "info"}, map[string]any{
		"uri":         uri,
		"duration_ms": durationMs,
		"mime_type":   mimeType,
	})
}

// LogRequest logs an incoming HTTP request.
func LogRequest(method, path string, statusCode int, durationMs int64) {
	slog.Info("http request", "method", method, "path", path, "status", statusCode, "duration_ms", durationMs)
	Push(map[string]string{"type": "request", "method": method, "level": "info"}, map[string]any{
		"method":      method,
		"path":        path,
		"status_code": statusCode,
		"duration_ms": durationMs,
	})
}

// LogError logs an error with the context it happened in.
func LogError(context string, err error) {
	slog.Error(context, "error", err)
	Push(map[string]string{"type": "error", "level": "error"}, map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// LogSecurityEvent records a rejected or suspicious HTTP request.
func LogSecurityEvent(requestID, subject, event string, details map[string]any) {
	attrs := []any{"request_id", requestID, "subject", subject, "event", event}
	for _, k := range sortedKeys(details) {
		attrs = append(attrs, k, details[k])
	}
	slog.Warn("security event", attrs...)

	data := map[string]any{
		"request_id": requestID,
		"subject":    subject,
		"event":      event,
	}
	for k, v := range details {
		data[k] = v
	}
	Push(map[string]string{"type": "security", "level": "warn"}, data)
}
