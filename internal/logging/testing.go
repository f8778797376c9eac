// pattern: Imperative Shell

package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NopLogger returns a logger that discards all output.
// Use in tests or when logging is not configured.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

type nopProvider struct{}

func (nopProvider) For(string) *ScopedLogger { return NopLogger() }

// NopProvider returns a LoggerProvider whose loggers discard everything.
func NopProvider() LoggerProvider {
	return nopProvider{}
}

// TestLogManager is a LoggerProvider for tests. It records entries in memory
// instead of writing a file.
type TestLogManager struct {
	sink    *MemorySink
	baseZap *zap.Logger
	loggers map[string]*ScopedLogger
	mu      sync.RWMutex
}

// NewTestLogManager creates a LoggerProvider that records every entry at debug level and above.
func NewTestLogManager() *TestLogManager {
	sink := NewMemorySink()

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(newEncoderConfig()),
		zapcore.AddSync(sink),
		zapcore.DebugLevel,
	)

	return &TestLogManager{
		sink:    sink,
		baseZap: zap.New(core),
		loggers: make(map[string]*ScopedLogger),
	}
}

// For returns a scoped logger for the given scope name.
// Named For() to match the production Manager API.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	m.mu.RLock()
	if logger, ok := m.loggers[scope]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}

	logger := newScopedLogger(m.baseZap.Named(scope), zapcore.DebugLevel, scope)
	m.loggers[scope] = logger
	return logger
}

// Entries returns everything logged so far.
func (m *TestLogManager) Entries() []LogEntry {
	return m.sink.Entries()
}

// HasMessage reports whether any entry logged under scope or one of its child
// scopes contains msg.
func (m *TestLogManager) HasMessage(scope, msg string) bool {
	for _, e := range m.sink.Entries() {
		if e.inScope(scope) && strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}

// Dump renders every recorded entry, one per line, for test failure output.
func (m *TestLogManager) Dump() string {
	entries := m.sink.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
