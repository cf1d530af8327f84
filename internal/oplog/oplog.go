// Package oplog is the client's in-process operation log: a bounded ring
// of OperationEntry records plus an optional fire-and-forget QueryLogger
// sink, grounded on the original client's debug::{OperationEntry,
// OperationType, QueryLogEntry} usage (original_source/crates/client/src/http/database.rs,
// e.g. ensure_database's "operation = operation.success(...); self.operation_log.push(operation)"
// and its parallel "logger.log(log_entry)" call under a read-locked
// optional sink).
package oplog

import (
	"context"
	"sync"
	"time"
)

// Type names the kind of client operation an OperationEntry records.
type Type string

const (
	CreateDatabase Type = "create_database"
	DeleteDatabase Type = "delete_database"
	InsertDocument Type = "insert_document"
	GetDocument    Type = "get_document"
	Query          Type = "query"
	GraphQL        Type = "execute_graphql"
	Log            Type = "log"
	Other          Type = "other"
)

// Entry is one recorded client operation, spec §5 "Operation log ring —
// append-mostly... OperationEntry { type, endpoint, db?, branch?,
// duration_ms, success, error?, extra }".
type Entry struct {
	Type       Type
	Endpoint   string
	Database   string
	Branch     string
	DurationMS int64
	Success    bool
	Error      string
	Extra      string // free-form additional context, e.g. "already exists"
	Timestamp  time.Time
}

// New starts an Entry for the given operation/endpoint. Database/Branch
// context and the terminal success/failure state are filled in by the
// With*/Success/Failure builder methods before the entry is pushed.
func New(typ Type, endpoint string) Entry {
	return Entry{Type: typ, Endpoint: endpoint, Timestamp: time.Now()}
}

// WithContext attaches database/branch context to the entry.
func (e Entry) WithContext(db, branch string) Entry {
	e.Database = db
	e.Branch = branch
	return e
}

// WithExtra attaches free-form additional context (e.g. "already exists"
// for ensure_database's 400 short-circuit).
func (e Entry) WithExtra(extra string) Entry {
	e.Extra = extra
	return e
}

// AsSuccess marks the entry successful with the given duration.
func (e Entry) AsSuccess(durationMS int64) Entry {
	e.Success = true
	e.DurationMS = durationMS
	return e
}

// AsFailure marks the entry failed with the given error and duration.
func (e Entry) AsFailure(errMsg string, durationMS int64) Entry {
	e.Success = false
	e.Error = errMsg
	e.DurationMS = durationMS
	return e
}

// QueryLogEntry is the record handed to a QueryLogger sink: a superset of
// Entry with a result count, used for human-facing query logs (a file, a
// custom collector) as opposed to the in-memory diagnostic ring.
type QueryLogEntry struct {
	Timestamp   time.Time
	Type        Type
	Database    string
	Branch      string
	Endpoint    string
	Details     string
	Success     bool
	ResultCount *int
	DurationMS  int64
	Error       string
}

// QueryLogger receives a QueryLogEntry for every non-trivial client
// operation. Implementations must not block the caller meaningfully and
// must never fail the calling operation — the client swallows Log errors
// (spec §4.3 "failures to log are swallowed").
type QueryLogger interface {
	Log(ctx context.Context, entry QueryLogEntry) error
}

// Ring is a fixed-capacity, mutex-protected ring buffer of Entry, the
// concrete form of spec §5's "append-mostly... mutex-protected bounded
// buffer; readers snapshot".
type Ring struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	next     int
	full     bool
}

// NewRing returns a Ring holding at most capacity entries. Once full,
// each Push evicts the oldest entry.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 256
	}
	return &Ring{entries: make([]Entry, capacity), capacity: capacity}
}

// Push records e, evicting the oldest entry if the ring is full.
func (r *Ring) Push(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = e
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
}

// Snapshot returns a copy of the currently-held entries, oldest first.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]Entry, r.next)
		copy(out, r.entries[:r.next])
		return out
	}
	out := make([]Entry, r.capacity)
	copy(out, r.entries[r.next:])
	copy(out[r.capacity-r.next:], r.entries[:r.next])
	return out
}

// Sink pairs a Ring with an optional QueryLogger: Record always appends to
// the ring, and additionally fires the logger (if set) without letting a
// logger failure affect the caller.
type Sink struct {
	ring   *Ring
	mu     sync.RWMutex
	logger QueryLogger
}

// NewSink returns a Sink backed by a ring of the given capacity.
func NewSink(capacity int) *Sink {
	return &Sink{ring: NewRing(capacity)}
}

// SetLogger installs (or clears, with nil) the QueryLogger sink.
func (s *Sink) SetLogger(logger QueryLogger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// Record pushes e onto the ring and, if a QueryLogger is installed, fires
// it asynchronously. Logger errors are discarded.
func (s *Sink) Record(ctx context.Context, e Entry, details string, resultCount *int) {
	s.ring.Push(e)

	s.mu.RLock()
	logger := s.logger
	s.mu.RUnlock()
	if logger == nil {
		return
	}
	entry := QueryLogEntry{
		Timestamp:   e.Timestamp,
		Type:        e.Type,
		Database:    e.Database,
		Branch:      e.Branch,
		Endpoint:    e.Endpoint,
		Details:     details,
		Success:     e.Success,
		ResultCount: resultCount,
		DurationMS:  e.DurationMS,
		Error:       e.Error,
	}
	go func() { _ = logger.Log(ctx, entry) }()
}

// Snapshot returns the currently-held ring entries, oldest first.
func (s *Sink) Snapshot() []Entry { return s.ring.Snapshot() }
