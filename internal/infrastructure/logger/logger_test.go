package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"Warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"trace":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew(t *testing.T) {
	l, err := New(nil)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(&Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("written")
	require.NoError(t, l.Sync())
	assert.FileExists(t, path)

	_, err = New(&Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")})
	assert.Error(t, err)
}

func TestCreateEncoder(t *testing.T) {
	entry := zapcore.Entry{Level: zapcore.InfoLevel, Message: "hello"}

	buf, err := createEncoder(&Config{Format: "json"}).EncodeEntry(entry, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf, err = createEncoder(&Config{Format: "console"}).EncodeEntry(entry, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), `"msg"`)
}
