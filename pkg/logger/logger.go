// Package logger provides structured logging utilities.
package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel parses a string into a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a structured JSON logger. Log lines are single JSON objects
// with time, level, msg and any attached key/value fields.
type Logger struct {
	mu     sync.Mutex
	output io.Writer
	level  Level
	fields []field
}

type field struct {
	key   string
	value interface{}
}

// New creates a Logger writing to output at the given level. A nil output
// defaults to stdout.
func New(output io.Writer, level string) *Logger {
	if output == nil {
		output = os.Stdout
	}
	return &Logger{
		output: output,
		level:  ParseLevel(level),
	}
}

// With returns a child Logger carrying the additional key/value fields on
// every line.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	child := &Logger{
		output: l.output,
		level:  l.level,
		fields: append([]field{}, l.fields...),
	}
	child.fields = append(child.fields, toFields(keyvals)...)
	return child
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.log(LevelDebug, msg, keyvals) }

// Info logs a message at info level.
func (l *Logger) Info(msg string, keyvals ...interface{}) { l.log(LevelInfo, msg, keyvals) }

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, keyvals ...interface{}) { l.log(LevelWarn, msg, keyvals) }

// Error logs a message at error level.
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.log(LevelError, msg, keyvals) }

func (l *Logger) log(level Level, msg string, keyvals []interface{}) {
	if level < l.level {
		return
	}

	entry := make(map[string]interface{}, len(l.fields)+len(keyvals)/2+3)
	for _, f := range l.fields {
		entry[f.key] = f.value
	}
	for _, f := range toFields(keyvals) {
		entry[f.key] = f.value
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level.String()
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.output.Write(append(data, '\n'))
}

func toFields(keyvals []interface{}) []field {
	fields := make([]field, 0, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, field{key: key, value: keyvals[i+1]})
	}
	return fields
}
