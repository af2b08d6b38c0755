package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestNew_DefaultsToJSONInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Debug("hidden")
	assert.Zero(t, buf.Len(), "debug is below the default level")

	log.Info("shown", slog.String("key", "value"))
	record := logLine(t, &buf)
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "value", record["key"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))

	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestWithFormat_PanicsOnInvalidFormat(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestNew_StaticAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "notifications")),
	)

	log.Info("hello")
	record := logLine(t, &buf)
	assert.Equal(t, "notifications", record["service"])
}

func TestNew_ContextValueExtractor(t *testing.T) {
	type ctxKey struct{}

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextValue("correlation_id", ctxKey{}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "corr-42")
	log.InfoContext(ctx, "hello")

	record := logLine(t, &buf)
	assert.Equal(t, "corr-42", record["correlation_id"])
}

func TestNew_ContextExtractorSkipsMissingValues(t *testing.T) {
	type ctxKey struct{}

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextValue("correlation_id", ctxKey{}),
	)

	log.InfoContext(context.Background(), "hello")
	record := logLine(t, &buf)
	assert.NotContains(t, record, "correlation_id")
}

func TestNew_DevelopmentAndProductionPresets(t *testing.T) {
	var buf bytes.Buffer
	dev := logger.New(logger.WithDevelopment("notifications"), logger.WithOutput(&buf))
	dev.Debug("visible in development")
	assert.Contains(t, buf.String(), "env=development")
	assert.Contains(t, buf.String(), "service=notifications")

	buf.Reset()
	prod := logger.New(logger.WithProduction("notifications"), logger.WithOutput(&buf))
	prod.Debug("hidden in production")
	assert.Zero(t, buf.Len())

	prod.Info("visible")
	record := logLine(t, &buf)
	assert.Equal(t, "production", record["env"])
}

func TestAttrHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.LogAttrs(context.Background(), slog.LevelInfo, "composed",
		logger.OrgID("org-1"),
		logger.UserID("user-1"),
		logger.NotificationID("n-1"),
		logger.Topic("policy-update"),
		logger.Count(3),
	)

	record := logLine(t, &buf)
	assert.Equal(t, "org-1", record["org_id"])
	assert.Equal(t, "user-1", record["user_id"])
	assert.Equal(t, "n-1", record["notification_id"])
	assert.Equal(t, "policy-update", record["topic"])
	assert.EqualValues(t, 3, record["count"])
}
