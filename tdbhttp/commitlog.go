package tdbhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/terminusdb/terminusdb-go/internal/oplog"
	"github.com/terminusdb/terminusdb-go/tdberr"
	"github.com/terminusdb/terminusdb-go/tdbmodel"
	"github.com/terminusdb/terminusdb-go/woql"
)

// LogOpts configures a history read (spec §4.3 "log(spec, opts)").
// Count<=0 leaves the page size to the server (LogIter applies its own
// default page size instead); Start<=0 begins at the newest commit.
type LogOpts struct {
	Start   int
	Count   int
	Verbose bool
}

// LogEntry is one commit in a database's history, newest first (spec §3
// "LogEntry").
type LogEntry struct {
	Identifier string   `json:"identifier"`
	Timestamp  float64  `json:"timestamp"`
	Author     string   `json:"author"`
	Message    string   `json:"message"`
	Parents    []string `json:"parent,omitempty"`
}

// Log fetches spec's commit history, newest first (spec §4.3 "log(spec,
// opts) -> list<LogEntry>").
func (c *Client) Log(ctx context.Context, spec Spec, opts LogOpts) ([]LogEntry, error) {
	if err := c.acquireRead(ctx); err != nil {
		return nil, tdberr.New(tdberr.Timeout, "log", spec.logPath(), err)
	}
	defer c.releaseRead()

	start := time.Now()
	endpoint := spec.logPath()
	q := logParams{Start: opts.Start, Count: opts.Count, Verbose: opts.Verbose}.values()

	resp, err := c.exchange(ctx, http.MethodGet, endpoint, q, nil)
	entry := oplog.New(oplog.Log, endpoint).WithContext(spec.DB, spec.Branch)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return nil, err
	}
	if resp.status != http.StatusOK {
		apiErr := c.dbError("log", endpoint, resp)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), "", nil)
		return nil, apiErr
	}
	entries, err := decodeAPIResponse[[]LogEntry](resp.body, "log", endpoint)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return nil, err
	}
	n := len(entries)
	c.ops.Record(ctx, entry.AsSuccess(since(start)), "", &n)
	return entries, nil
}

const defaultLogPageSize = 50

// CommitLogIterator streams a database's commit history page by page,
// newest first (spec §4.3 "log_iter(spec, opts) -> CommitLogIterator").
type CommitLogIterator struct {
	client   *Client
	spec     Spec
	pageSize int
	verbose  bool

	buf       []LogEntry
	idx       int
	start     int
	exhausted bool
}

// LogIter returns a CommitLogIterator over spec's history.
func (c *Client) LogIter(spec Spec, opts LogOpts) *CommitLogIterator {
	pageSize := opts.Count
	if pageSize <= 0 {
		pageSize = defaultLogPageSize
	}
	return &CommitLogIterator{client: c, spec: spec, pageSize: pageSize, verbose: opts.Verbose, start: opts.Start}
}

// Next returns the next commit, or ok=false once the history is
// exhausted. A non-nil error aborts iteration — the underlying page
// fetch itself failed, as opposed to a single commit's own processing.
func (it *CommitLogIterator) Next(ctx context.Context) (entry LogEntry, ok bool, err error) {
	if it.idx >= len(it.buf) {
		if it.exhausted {
			return LogEntry{}, false, nil
		}
		page, err := it.client.Log(ctx, it.spec, LogOpts{Start: it.start, Count: it.pageSize, Verbose: it.verbose})
		if err != nil {
			return LogEntry{}, false, err
		}
		it.buf = page
		it.idx = 0
		it.start += len(page)
		if len(page) < it.pageSize {
			it.exhausted = true
		}
		if len(page) == 0 {
			return LogEntry{}, false, nil
		}
	}
	e := it.buf[it.idx]
	it.idx++
	return e, true, nil
}

// EntityIterator wraps a CommitLogIterator and, for each commit, yields
// the entities of type T that were added in it (spec §4.3, "entity_iter").
// A commit whose own entity query or fetch fails is logged and skipped
// rather than aborting the whole iteration (spec §7 propagation rule c).
type EntityIterator[T any] struct {
	client  *Client
	spec    Spec
	commits *CommitLogIterator
	limit   int

	pending    []T
	pendingIdx int
}

// EntityIter returns an EntityIterator[T] over spec's history.
func EntityIter[T any](c *Client, spec Spec, opts LogOpts) *EntityIterator[T] {
	return &EntityIterator[T]{client: c, spec: spec, commits: c.LogIter(spec, opts), limit: 1000}
}

// Next returns the next entity of type T, or ok=false once every commit
// has been visited.
func (it *EntityIterator[T]) Next(ctx context.Context) (v T, ok bool, err error) {
	var zero T
	for {
		if it.pendingIdx < len(it.pending) {
			v := it.pending[it.pendingIdx]
			it.pendingIdx++
			return v, true, nil
		}

		commit, ok, err := it.commits.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			return zero, false, nil
		}

		ids, err := CommitAddedEntitiesIDs[T](ctx, it.client, it.spec, commit.Identifier, it.limit)
		if err != nil {
			it.client.logger.WithError(err).WithField("commit", commit.Identifier).
				Warn("tdbhttp: entity iterator: commit query failed, skipping")
			continue
		}

		vals := make([]T, 0, len(ids))
		for _, id := range ids {
			val, err := GetInstance[T](ctx, it.client, it.spec, id)
			if err != nil {
				it.client.logger.WithError(err).WithField("id", id).
					Warn("tdbhttp: entity iterator: entity fetch failed, skipping")
				continue
			}
			vals = append(vals, val)
		}
		it.pending = vals
		it.pendingIdx = 0
	}
}

// CommitAddedEntitiesIDs returns the ids of every T added in commit (spec
// §4.3 "commit_added_entities_ids::<T>(spec, commit, limit?)"). limit<=0
// defaults to 1000.
func CommitAddedEntitiesIDs[T any](ctx context.Context, c *Client, spec Spec, commit string, limit int) ([]string, error) {
	schemaName, err := tdbmodel.SchemaNameFor[T]()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1000
	}

	scope := joinPath(spec.Org, spec.DB, spec.AtCommit(commit).ref())
	q := woql.New().
		AddedTriple(woql.GraphInstance, woql.Var("id"), woql.Node("rdf:type"), woql.Node("@schema:"+schemaName)).
		Using(scope).
		Limit(uint64(limit)).
		Select(woql.Var("id")).
		Finalize()

	result, err := c.Query(ctx, spec, q)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Bindings))
	for _, binding := range result.Bindings {
		raw, ok := binding["id"]
		if !ok {
			continue
		}
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FirstCommitCreatedEntityID returns the id of the first T added in
// commit, if any (spec §4.3 "first_commit_created_entity_id::<T>(spec,
// commit)").
func FirstCommitCreatedEntityID[T any](ctx context.Context, c *Client, spec Spec, commit string) (string, bool, error) {
	ids, err := CommitAddedEntitiesIDs[T](ctx, c, spec, commit, 1)
	if err != nil {
		return "", false, err
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

// findCommitAdding is the commit-walk fallback used by
// InsertInstanceWithCommitID when the TerminusDB-Data-Version header is
// absent (spec §4.3 "Insert commit-ID resolution fallback"): walk the
// last ~10 commits, newest first, asking each "did you add this id" via
// an AddedTriple query, bounded overall by a 30-second timeout. Both
// bounds are expressed through backoff/v4's retry machinery rather than
// a hand-rolled loop+timer.
func (c *Client) findCommitAdding(ctx context.Context, spec Spec, id string) (string, error) {
	entries, err := c.Log(ctx, spec, LogOpts{Count: 10})
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", tdberr.Newf(tdberr.Timeout, "insert_instance_with_commit_id", spec.logPath(), "no commits to search for %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	idx := 0
	var found string
	operation := func() error {
		if idx >= len(entries) {
			return backoff.Permanent(fmt.Errorf("no commit among the last %d added %q", len(entries), id))
		}
		commit := entries[idx]
		idx++
		added, err := c.commitAdded(ctx, spec, commit.Identifier, id)
		if err != nil {
			return backoff.Permanent(err)
		}
		if added {
			found = commit.Identifier
			return nil
		}
		return fmt.Errorf("commit %s did not add %q", commit.Identifier, id)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(0), uint64(len(entries))), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", tdberr.New(tdberr.Timeout, "insert_instance_with_commit_id", spec.logPath(), err)
	}
	return found, nil
}

// commitAdded reports whether commit added any triple with id as subject,
// scoped to commit/{hash} within {org}/{db} (spec §4.3).
func (c *Client) commitAdded(ctx context.Context, spec Spec, commit, id string) (bool, error) {
	scope := joinPath(spec.Org, spec.DB, spec.AtCommit(commit).ref())
	q := woql.New().
		AddedTriple(woql.GraphInstance, woql.Node(id), woql.Var("p"), woql.Var("o")).
		Using(scope).
		Limit(1).
		Finalize()
	result, err := c.Query(ctx, spec, q)
	if err != nil {
		return false, err
	}
	return len(result.Bindings) > 0, nil
}
