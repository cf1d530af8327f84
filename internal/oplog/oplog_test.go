package oplog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/internal/oplog"
)

func TestRingEvictsOldestOnceFull(t *testing.T) {
	t.Parallel()

	r := oplog.NewRing(2)
	r.Push(oplog.New(oplog.CreateDatabase, "/api/db/a").AsSuccess(1))
	r.Push(oplog.New(oplog.CreateDatabase, "/api/db/b").AsSuccess(2))
	r.Push(oplog.New(oplog.CreateDatabase, "/api/db/c").AsSuccess(3))

	snap := r.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "/api/db/b", snap[0].Endpoint)
	assert.Equal(t, "/api/db/c", snap[1].Endpoint)
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []oplog.QueryLogEntry
	done    chan struct{}
}

func (l *recordingLogger) Log(_ context.Context, entry oplog.QueryLogEntry) error {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	if l.done != nil {
		l.done <- struct{}{}
	}
	return nil
}

func TestSinkFiresLoggerWithoutBlockingRecord(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{done: make(chan struct{}, 1)}
	sink := oplog.NewSink(8)
	sink.SetLogger(logger)

	entry := oplog.New(oplog.InsertDocument, "/api/document/admin/db").AsSuccess(5)
	sink.Record(context.Background(), entry, `{"count":1}`, nil)

	<-logger.done
	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Len(t, logger.entries, 1)
	assert.Equal(t, "/api/document/admin/db", logger.entries[0].Endpoint)
	assert.True(t, logger.entries[0].Success)
}

func TestSinkSnapshotReflectsRecordedEntries(t *testing.T) {
	t.Parallel()

	sink := oplog.NewSink(4)
	sink.Record(context.Background(), oplog.New(oplog.Query, "/api/woql/admin/db").AsFailure("boom", 7), "", nil)

	snap := sink.Snapshot()
	require.Len(t, snap, 1)
	assert.False(t, snap[0].Success)
	assert.Equal(t, "boom", snap[0].Error)
}
