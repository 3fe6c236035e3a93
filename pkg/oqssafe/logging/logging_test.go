package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWritesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.With("component", "kem").Info(context.Background(), "backend selected", "backend", "mock")

	out := buf.String()
	assert.Contains(t, out, "backend selected")
	assert.Contains(t, out, "component=kem")
	assert.Contains(t, out, "backend=mock")
}

func TestBytesNeverLogsContent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.New(slog.NewTextHandler(&buf, nil)))

	secret := []byte("do-not-print-this-secret")
	logger.Info(context.Background(), "decapsulated", Bytes("shared_secret", secret), Redacted("secret_key"))

	out := buf.String()
	assert.NotContains(t, out, "do-not-print-this-secret")
	assert.Contains(t, out, "shared_secret.len=24")
	assert.Contains(t, out, "secret_key="+Placeholder())
}

func TestNopDiscards(t *testing.T) {
	logger := Nop()
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), "ignored")
		logger.With("k", "v").Debug(context.Background(), "ignored")
	})
}
