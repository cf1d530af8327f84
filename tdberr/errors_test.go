package tdberr_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdberr"
)

func TestClientErrorIsSentinel(t *testing.T) {
	t.Parallel()

	err := tdberr.New(tdberr.DocumentNotFound, "get_document", "document/admin/mydb", nil)
	assert.True(t, errors.Is(err, tdberr.ErrDocumentNotFound))
	assert.False(t, errors.Is(err, tdberr.ErrAuthFailure))
	assert.True(t, tdberr.IsDocumentNotFound(err))
	assert.False(t, tdberr.IsAuthFailure(err))
}

func TestClientErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset by peer")
	err := tdberr.New(tdberr.Transport, "insert_instance", "document/admin/mydb", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset by peer")
}

func TestClientErrorWithDuration(t *testing.T) {
	t.Parallel()

	err := tdberr.Newf(tdberr.Timeout, "commit_walk", "log/admin/mydb", "exceeded 30s bound")
	withDur := err.WithDuration(31 * time.Second)
	require.NotSame(t, err, withDur)
	assert.Equal(t, 31*time.Second, withDur.Duration)
	assert.Equal(t, time.Duration(0), err.Duration)
	assert.True(t, tdberr.IsTimeout(withDur))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		k    tdberr.Kind
		want string
	}{
		{tdberr.Transport, "transport"},
		{tdberr.DocumentNotFound, "document_not_found"},
		{tdberr.ConflictingCommit, "conflicting_commit"},
		{tdberr.Other, "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.k.String())
	}
}
