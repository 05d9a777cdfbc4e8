package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// TestLogHelpers_NilLogger tests every helper tolerates a nil logger.
func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogRunStart(nil, "g", "r")
		LogRunComplete(nil, "r", 1.5, 3)
		LogRunError(nil, "r", errors.New("x"), 1.5, "n")
		LogNodeStart(nil, "n", 1)
		LogNodeComplete(nil, "n", 1.5)
		LogNodeFailed(nil, "n", "oops")
		LogRouteDecision(nil, "a", "b")
		LogRunEnd(nil, "n")
		LogHistoryError(nil, "r", errors.New("x"))
	})
}

// TestLogRunStart tests the run start record carries its fields.
func TestLogRunStart(t *testing.T) {
	logger, buf := captureLogger()

	LogRunStart(logger, "pipeline", "run-1")

	out := buf.String()
	assert.Contains(t, out, "graph run starting")
	assert.Contains(t, out, "graph=pipeline")
	assert.Contains(t, out, "run_id=run-1")
}

// TestLogNodeFailed tests failures log at error level with the text.
func TestLogNodeFailed(t *testing.T) {
	logger, buf := captureLogger()

	LogNodeFailed(logger, "scorer", "Node 'scorer' failed: boom")

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "node=scorer")
	assert.Contains(t, out, "boom")
}

// TestLogRouteDecision tests routing logs at debug level.
func TestLogRouteDecision(t *testing.T) {
	logger, buf := captureLogger()

	LogRouteDecision(logger, "a", "b")
	LogRunEnd(logger, "b")

	out := buf.String()
	assert.Contains(t, out, "route decided")
	assert.Contains(t, out, "from=a")
	assert.Contains(t, out, "run ending")
}

// TestTimedOperation tests elapsed time reporting.
func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)

	assert.GreaterOrEqual(t, done(), float64(0))
}
