package document

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.With("unit", "spec_users.json").Warn("component conflict", "id", "schemas/User")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="component conflict"`)
	assert.Contains(t, out, "unit=spec_users.json")
	assert.Contains(t, out, "id=schemas/User")
}

func TestLoggerOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, LoggerOrNop(nil))
	l := NewSlogAdapter(nil)
	assert.Same(t, l, LoggerOrNop(l))
	// must not panic
	NopLogger{}.With("a", 1).Error("ignored")
}
