// Package audit provides an in-memory ring buffer (with optional SQLite
// persistence) recording every tool-surface invocation: what was asked, when,
// and with what outcome. It is an ambient operability concern, distinct from
// the pricing engine's per-process caches — it records requests, it never
// answers a pricing question from its own history.
package audit

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/musheer360/awscalc-mcp/internal/store"
)

// Event is a single recorded tool invocation.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Arguments string    `json:"arguments"`
	Outcome   string    `json:"outcome"` // "ok" or "error"
	Details   string    `json:"details"`
}

// Log is a thread-safe ring buffer of invocation events with optional
// SQLite persistence via an async Writer.
type Log struct {
	mu     sync.RWMutex
	events []Event
	max    int
	db     *sql.DB
	writer *store.Writer
}

// New creates an in-memory-only audit log with the given ring buffer
// capacity.
func New(maxEvents int) *Log {
	return &Log{events: make([]Event, 0, maxEvents), max: maxEvents}
}

// NewWithDB creates an audit log backed by SQLite. Events are persisted
// through writer; if writer is nil it behaves identically to New.
func NewWithDB(maxEvents int, db *sql.DB, writer *store.Writer) *Log {
	return &Log{events: make([]Event, 0, maxEvents), max: maxEvents, db: db, writer: writer}
}

// Record appends a new invocation event to the ring buffer and, if a writer
// is configured, enqueues it for async SQLite persistence.
func (l *Log) Record(tool, arguments, outcome, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	event := Event{
		Timestamp: time.Now(),
		Tool:      tool,
		Arguments: arguments,
		Outcome:   outcome,
		Details:   details,
	}

	if len(l.events) >= l.max {
		copy(l.events, l.events[1:])
		l.events[len(l.events)-1] = event
	} else {
		l.events = append(l.events, event)
	}

	if l.writer != nil {
		ts := event.Timestamp.Format(time.RFC3339)
		tool, args, outcome, details := event.Tool, event.Arguments, event.Outcome, event.Details
		l.writer.Enqueue(func(db *sql.DB) {
			if _, err := db.Exec(
				"INSERT INTO tool_invocations (timestamp, tool, arguments, outcome, details) VALUES (?, ?, ?, ?, ?)",
				ts, tool, args, outcome, details,
			); err != nil {
				slog.Error("audit: insert event", "tool", tool, "error", err)
			}
		})
	}
}

// Recent returns the most recent n events, most recent first.
func (l *Log) Recent(n int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := len(l.events)
	if n > count {
		n = count
	}
	result := make([]Event, n)
	for i := 0; i < n; i++ {
		result[i] = l.events[count-1-i]
	}
	return result
}

// Flush drains any pending async writes. Safe to call with no writer
// configured.
func (l *Log) Flush() {
	if l.writer != nil {
		l.writer.Drain()
	}
}
