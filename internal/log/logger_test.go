package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/livraria/pkg/types"
)

func TestConsoleHandlerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Console: &buf})
	t.Cleanup(func() { Init(Options{}) })

	l := WithOperation(WithComponent("backup"), "prune")
	l.Debug("hidden")
	l.Info("snapshot written", slog.String("path", "/tmp/a b.db"), slog.Int("kept", 5))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INF snapshot written")
	assert.Contains(t, out, "component=backup")
	assert.Contains(t, out, "op=prune")
	assert.Contains(t, out, `path="/tmp/a b.db"`)
	assert.Contains(t, out, "kept=5")
	assert.NotContains(t, out, "run=")
}

func TestDefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Console: &buf})
	t.Cleanup(func() { Init(Options{}) })

	L().Info("quiet")
	L().Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "WRN loud")
}

func TestFileSinkWritesJSONWithRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livraria.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", File: path, Console: &console})
	t.Cleanup(func() {
		require.NoError(t, Close())
		Init(Options{})
	})

	WithComponent("sqlite").Debug("row inserted", slog.Int64("id", 1))
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var last map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		require.NoError(t, json.Unmarshal([]byte(line), &last))
	}
	require.NotNil(t, last)
	assert.Equal(t, "livraria", last["app"])
	assert.Equal(t, "sqlite", last["component"])
	assert.Equal(t, "row inserted", last["msg"])
	run, _ := last["run"].(string)
	assert.Len(t, run, 36)
	assert.Contains(t, console.String(), "DBG row inserted")
}

func TestFromConfig(t *testing.T) {
	opts := FromConfig(types.LogConfig{Level: "debug", Format: "json", File: "/var/log/livraria.log"})
	assert.Equal(t, Options{Level: "debug", Format: "json", File: "/var/log/livraria.log"}, opts)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel(" info "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelWarn, parseLevel(""))
	assert.Equal(t, slog.LevelWarn, parseLevel("bogus"))
}
