package albert

import (
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"
)

// HCLogLogger adapts an hclog.Logger to Logger.
type HCLogLogger struct {
	logger hclog.Logger
}

// NewHCLogLogger wraps logger.
func NewHCLogLogger(logger hclog.Logger) *HCLogLogger {
	return &HCLogLogger{logger: logger}
}

// NewDefaultLogger builds a named hclog logger writing to output at level
// ("trace", "debug", "info", "warn", "error").
func NewDefaultLogger(name, level string, output io.Writer) *HCLogLogger {
	return NewHCLogLogger(hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.LevelFromString(level),
		Output: output,
	}))
}

func (l *HCLogLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, flatten(fields)...)
}

func (l *HCLogLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, flatten(fields)...)
}

func (l *HCLogLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, flatten(fields)...)
}

func (l *HCLogLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, flatten(fields)...)
}

// flatten turns a field map into hclog key/value pairs with sorted keys.
func flatten(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
