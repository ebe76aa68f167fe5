package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergreen/nursery/pkg/web"
)

// logLine captures one record written through the handler under test.
func logLine(t *testing.T, ctx context.Context) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	log.InfoContext(ctx, "request handled")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestContextHandler_InjectedRequestID(t *testing.T) {
	// given
	ctx := web.WithRequestID(context.Background(), "req-123")

	// when
	record := logLine(t, ctx)

	// then
	assert.Equal(t, "req-123", record["request_id"])
}

func TestContextHandler_ChiRequestIDFallback(t *testing.T) {
	// given: only the chi middleware id is present
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "chi-456")

	// when
	record := logLine(t, ctx)

	// then
	assert.Equal(t, "chi-456", record["request_id"])
}

func TestContextHandler_InjectedIDWinsOverChi(t *testing.T) {
	// given
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "chi-456")
	ctx = web.WithRequestID(ctx, "req-123")

	// when
	record := logLine(t, ctx)

	// then
	assert.Equal(t, "req-123", record["request_id"])
}

func TestContextHandler_NoRequestID(t *testing.T) {
	// when
	record := logLine(t, context.Background())

	// then
	_, present := record["request_id"]
	assert.False(t, present)
	assert.Equal(t, "request handled", record["msg"])
}
