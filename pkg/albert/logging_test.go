package albert_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

func TestDefaultLogger_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := albert.NewDefaultLogger("albert", "warn", &buf)
	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown", map[string]interface{}{"b": 2, "a": 1})
	logger.Error("failed", nil)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "albert: shown: a=1 b=2")
	assert.Contains(t, out, "[ERROR]")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	var logger albert.Logger = albert.NopLogger{}

	assert.NotPanics(t, func() {
		logger.Debug("x", nil)
		logger.Info("x", nil)
		logger.Warn("x", nil)
		logger.Error("x", map[string]interface{}{"k": "v"})
	})
}
