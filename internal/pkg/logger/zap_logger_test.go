package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerRoundTripsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewIsolatedLogger(path)

	l.Info("SETTLEMENT", "Settlement initiated", map[string]interface{}{"amount": "5000.00"})
	l.Warn("REFUND", "Refund released", nil)
	l.Debug("REFUND", "below file level", nil)
	require.NoError(t, l.Sync())

	logs, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Refund released", logs[0].Message, "newest first")
	assert.Equal(t, "SETTLEMENT", logs[1].Module)
	assert.Equal(t, "5000.00", logs[1].Details["amount"])

	warn, err := l.GetLogs("WARN", 10, 0)
	require.NoError(t, err)
	assert.Len(t, warn, 1)

	found, err := l.GetLogById(logs[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "Settlement initiated", found.Message)

	_, err = l.GetLogById("missing")
	assert.Error(t, err)
}

func TestGetLogsPagination(t *testing.T) {
	l := NewIsolatedLogger(filepath.Join(t.TempDir(), "app.log"))
	for i := 0; i < 5; i++ {
		l.Info("VENDOR", "entry", map[string]interface{}{"i": i})
	}
	require.NoError(t, l.Sync())

	page, err := l.GetLogs("", 2, 4)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	empty, err := l.GetLogs("", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("X", "ignored", map[string]interface{}{"error": "boom"})
	logs, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
