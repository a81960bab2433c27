package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
	assert.Equal(t, log.InfoLevel, ParseLevel("chatty"))
}

func TestNew_TeesToHistory(t *testing.T) {
	var console, history bytes.Buffer
	logger := New(Options{Level: "info", Console: &console, History: &history})

	logger.Info("pulling image", "image", "senzing/init-container:1.2.0")
	logger.Debug("hidden")

	assert.Contains(t, console.String(), "pulling image")
	assert.Contains(t, history.String(), "senzing/init-container:1.2.0")
	assert.NotContains(t, history.String(), "hidden")
}
