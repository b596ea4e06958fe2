package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantdoc/internal/logging"
)

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plantdoc.log")
	log, err := logging.New(logging.Options{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	log.Debug("hello")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"msg":"hello"`), string(b))
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plantdoc.log")
	log, err := logging.New(logging.Options{Level: "WARN", Format: "console", File: path})
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("loud")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "quiet")
	assert.Contains(t, string(b), "loud")
}

func TestNew_Rejects(t *testing.T) {
	_, err := logging.New(logging.Options{Level: "chatty"})
	assert.Error(t, err)
	_, err = logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
}
