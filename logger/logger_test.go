package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	instance = nil
	initErr = nil
	once = sync.Once{}
}

func TestInit(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
		file     bool
	}{
		{name: "console", settings: Settings{Level: "info", Type: TypeConsole}},
		{name: "file", settings: Settings{Level: "debug", Type: TypeFile}, file: true},
		{name: "file without path", settings: Settings{Level: "info", Type: TypeFile}, wantErr: true},
		{name: "unknown type", settings: Settings{Level: "info", Type: "syslog"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(reset)
			prev := slog.Default()
			t.Cleanup(func() { slog.SetDefault(prev) })

			if tt.file {
				tt.settings.FilePath = filepath.Join(t.TempDir(), "app.log")
			}

			err := Init(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Same(t, slog.Default(), Get())
				return
			}
			require.NoError(t, err)

			log := Get()
			require.NotNil(t, log)
			log.Info("test message")

			if tt.file {
				_, err := os.Stat(tt.settings.FilePath)
				assert.NoError(t, err)
			}
		})
	}
}

func TestInit_Idempotent(t *testing.T) {
	t.Cleanup(reset)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, Init(Settings{Level: "info", Type: TypeConsole}))
	first := Get()
	require.NoError(t, Init(Settings{Level: "debug", Type: "bogus"}))
	assert.Same(t, first, Get())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
