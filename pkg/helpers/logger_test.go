package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	fields := logrus.Fields{"svix_id": "msg_1"}

	LogWarn(logger, "webhook rejected", errors.New("no matching signature"), fields)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "webhook rejected", entry["msg"])
	assert.Equal(t, "msg_1", entry["svix_id"])
	assert.Equal(t, "no matching signature", entry["error"])
	assert.NotContains(t, fields, "error")
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError(nil, "x", errors.New("y"), nil)
		LogInfo(nil, "x", nil)
	})
}

func TestNewLogger_LevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	logger := NewLogger("test", "production")

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}
