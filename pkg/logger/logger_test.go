package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestWithKeepsParentUsable(t *testing.T) {
	child := GetLogger().With("component", "test")
	assert.NotNil(t, child)
	assert.NotPanics(t, func() {
		child.Info("child log line", "k", "v")
		GetLogger().Debug("parent log line")
	})
}
