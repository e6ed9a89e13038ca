// Package trace is the diagnostics sink for the scene graph.
//
// It keeps one grouped log buffer per [Kind]. A buffer only records while
// its group is started, so hosts can capture, say, the layout messages of a
// single frame and query them afterwards. Independently, Verbose mode echoes
// every operation through a standard library logger.
package trace

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Kind names a log group.
type Kind int

const (
	KindTree Kind = iota
	KindLayout
	KindCallback
	KindLazy
	KindVsync
	KindEvent

	kindCount
)

var kindNames = [kindCount]string{"tree", "layout", "callback", "lazy", "vsync", "event"}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a group name.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown log group %q", s)
}

type group struct {
	active bool
	buf    strings.Builder
}

// Log collects grouped messages. It is safe for concurrent use; the vsync
// goroutine logs through the same instance as the owner thread.
type Log struct {
	mu      sync.Mutex
	groups  [kindCount]group
	verbose bool
	logger  *log.Logger
}

// New returns a Log that echoes verbose output to w. A nil w means stderr.
func New(w io.Writer) *Log {
	if w == nil {
		w = os.Stderr
	}
	return &Log{logger: log.New(w, "[scene] ", log.Lmicroseconds)}
}

// SetVerbose toggles per-operation echo.
func (l *Log) SetVerbose(v bool) {
	l.mu.Lock()
	l.verbose = v
	l.mu.Unlock()
}

// Verbose reports whether per-operation echo is on.
func (l *Log) Verbose() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// StartGroupedLog begins recording kind, discarding anything recorded before.
func (l *Log) StartGroupedLog(kind Kind) {
	if !valid(kind) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	g := &l.groups[kind]
	g.active = true
	g.buf.Reset()
}

// StopGroupedLog stops recording kind. The buffer stays queryable.
func (l *Log) StopGroupedLog(kind Kind) {
	if !valid(kind) {
		return
	}
	l.mu.Lock()
	l.groups[kind].active = false
	l.mu.Unlock()
}

// AppendGroupedLog records a line in kind's buffer if the group is started.
func (l *Log) AppendGroupedLog(kind Kind, format string, args ...any) {
	if !valid(kind) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	g := &l.groups[kind]
	if !g.active {
		return
	}
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// GetGroupedLog returns everything recorded for kind.
func (l *Log) GetGroupedLog(kind Kind) string {
	if !valid(kind) {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groups[kind].buf.String()
}

// Event records an operation: it is appended to kind's group and, in verbose
// mode, echoed through the logger. A nil Log discards everything.
func (l *Log) Event(kind Kind, format string, args ...any) {
	if l == nil || !valid(kind) {
		return
	}
	l.AppendGroupedLog(kind, format, args...)
	if l.Verbose() {
		l.logger.Printf("%s: %s", kind, fmt.Sprintf(format, args...))
	}
}

func valid(kind Kind) bool {
	return kind >= 0 && kind < kindCount
}
