package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsWorkingLogger(t *testing.T) {
	log := New("test")
	assert.NotNil(t, log)
	// Must not panic on any level.
	log.Debugf("debug %d", 1)
	log.Debugw("debug with fields", map[string]any{"k": "v", "n": 2})
	log.Infof("info")
	log.Warnf("warn")
	log.Errorf("error: %v", assert.AnError)
}

func TestNewWithLevelFallsBackToInfo(t *testing.T) {
	assert.NotNil(t, NewWithLevel("test", "nonsense"))
	assert.NotNil(t, NewWithLevel("test", "debug"))
	assert.NotNil(t, NewWithLevel("test", "ERROR"))
}

func TestNewConsoleModeInDev(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	log := New("test")
	assert.NotNil(t, log)
	log.Infof("console output")
}
