package logging

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	require.NoError(t, Setup(Options{Level: "debug"}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	require.NoError(t, Setup(Options{}))
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	assert.Error(t, Setup(Options{Level: "shouting"}))
}

func TestSetupFormats(t *testing.T) {
	require.NoError(t, Setup(Options{Format: "json"}))
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	require.NoError(t, Setup(Options{Format: "text"}))
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)
}

func TestSetupFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Setup(Options{Level: "info", File: path}))

	logrus.Info("hello")
	// lumberjack creates the file lazily on first write
	assert.FileExists(t, path)

	// restore for other tests
	require.NoError(t, Setup(Options{}))
}
