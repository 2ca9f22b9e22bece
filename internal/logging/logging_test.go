package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Console: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("storage connected", zap.String("name", "HaldaiOS_DB"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "storage connected")
	assert.Contains(t, out, "HaldaiOS_DB")
}

func TestNew_DefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Console: &buf})
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("loud")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Format: FormatJSON, Console: &buf})
	require.NoError(t, err)

	log.Info("hello", zap.Int("n", 2))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, float64(2), entry["n"])
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haldai.log")
	log, err := New(Options{Level: "info", File: path, Console: &bytes.Buffer{}})
	require.NoError(t, err)

	log.Error("storage open failed")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"message":"storage open failed"`))
}

func TestNew_BadOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}
