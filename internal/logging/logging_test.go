package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filetag-go/internal/config"
)

func TestNewLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New(config.LogConfig{Level: "debug"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(config.LogConfig{Level: "chatty"}).GetLevel())
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filetag.log")
	logger := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1})
	logger.WithField("file_id", 1).Info("文件已创建")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"file_id":1`)
}
