// pattern: Functional Core

package logging

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// LogEntry is a decoded log line.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Scope     string // dotted logger name, e.g. "template.engine"
	Message   string
	Fields    map[string]any
}

// String renders the entry as "LEVEL scope: message key=value ...", fields in
// key order so the output is stable across runs.
func (e LogEntry) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-5s %s: %s", e.Level, e.Scope, e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Fields[k])
	}
	return sb.String()
}

// inScope reports whether the entry was logged under scope or one of its
// children. An empty scope matches everything.
func (e LogEntry) inScope(scope string) bool {
	return scope == "" || e.Scope == scope || strings.HasPrefix(e.Scope, scope+".")
}

// ParseLevel maps a zap level name to its upper-case form. "warning" is
// accepted as WARN; anything unrecognised becomes INFO.
func ParseLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel.CapitalString()
	}
	return lvl.CapitalString()
}
