package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_LevelAndJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")

	logger, err := New(Config{Level: "warn", Format: "json", OutputPath: path})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("part redeclared", zap.String("part", "M3 Nut"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "info should be filtered at warn level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "part redeclared", entry["msg"])
	require.Equal(t, "M3 Nut", entry["part"])
}

func TestNew_ConsoleDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")

	logger, err := New(Config{Level: "debug", OutputPath: path})
	require.NoError(t, err)
	logger.Debug("script evaluated")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "DEBUG")
	require.Contains(t, string(data), "script evaluated")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Config{Level: "chatty", OutputPath: filepath.Join(t.TempDir(), "log")})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zap.InfoLevel))
	require.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Config{Level: "info", Format: "xml"})
	require.Error(t, err)
}
