package tdbhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/terminusdb/terminusdb-go/internal/oplog"
	"github.com/terminusdb/terminusdb-go/tdberr"
)

// databaseKey is the cache key for the process-local "ensured" set
// (spec §4.3 "Cache: a process-local set of database names").
func (s Spec) databaseKey() string { return s.Org + "/" + s.DB }

// isEnsured reports whether spec's database is already in the cache.
func (c *Client) isEnsured(spec Spec) bool {
	c.ensuredMu.Lock()
	defer c.ensuredMu.Unlock()
	_, ok := c.ensured[spec.databaseKey()]
	return ok
}

func (c *Client) markEnsured(spec Spec) {
	c.ensuredMu.Lock()
	c.ensured[spec.databaseKey()] = struct{}{}
	c.ensuredMu.Unlock()
}

func (c *Client) unmarkEnsured(spec Spec) {
	c.ensuredMu.Lock()
	delete(c.ensured, spec.databaseKey())
	c.ensuredMu.Unlock()
}

// ClearDatabaseCache empties the ensured-database cache, forcing the
// next EnsureDatabase to hit the network.
func (c *Client) ClearDatabaseCache() {
	c.ensuredMu.Lock()
	c.ensured = make(map[string]struct{})
	c.ensuredMu.Unlock()
}

type createDatabaseRequest struct {
	Label   string `json:"label,omitempty"`
	Comment string `json:"comment,omitempty"`
	Public  bool   `json:"public"`
	Schema  bool   `json:"schema"`
}

// EnsureDatabase creates spec's database if it does not already exist,
// short-circuiting on the local cache and accepting both 200 (created)
// and 400 (already exists) as success (spec §4.3 "Ensure-database
// accepts both 200 (created) and 400 (already exists) as success; other
// codes fail.").
func (c *Client) EnsureDatabase(ctx context.Context, spec Spec, label, comment string) error {
	if c.isEnsured(spec) {
		return nil
	}
	start := time.Now()
	endpoint := spec.dbPath()

	if err := c.acquireWrite(ctx); err != nil {
		return tdberr.New(tdberr.Timeout, "ensure_database", endpoint, err)
	}
	defer c.releaseWrite()

	ctx, span := c.span(ctx, "ensure_database")
	defer span.End()

	body := createDatabaseRequest{Label: label, Comment: comment, Public: true, Schema: true}
	resp, err := c.exchange(ctx, http.MethodPost, endpoint, nil, body)
	entry := oplog.New(oplog.CreateDatabase, endpoint).WithContext(spec.DB, spec.Branch)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return err
	}

	switch resp.status {
	case http.StatusOK, http.StatusCreated:
		c.markEnsured(spec)
		c.ops.Record(ctx, entry.AsSuccess(since(start)), "", nil)
		return nil
	case http.StatusBadRequest:
		c.markEnsured(spec)
		c.ops.Record(ctx, entry.WithExtra("already exists").AsSuccess(since(start)), "", nil)
		return nil
	default:
		apiErr := c.dbError("ensure_database", endpoint, resp)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), "", nil)
		return apiErr
	}
}

// DeleteDatabase removes spec's database and invalidates the ensured
// cache for it.
func (c *Client) DeleteDatabase(ctx context.Context, spec Spec) error {
	start := time.Now()
	endpoint := spec.dbPath()

	if err := c.acquireWrite(ctx); err != nil {
		return tdberr.New(tdberr.Timeout, "delete_database", endpoint, err)
	}
	defer c.releaseWrite()

	resp, err := c.exchange(ctx, http.MethodDelete, endpoint, nil, nil)
	entry := oplog.New(oplog.DeleteDatabase, endpoint).WithContext(spec.DB, spec.Branch)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return err
	}
	if resp.status < 200 || resp.status >= 300 {
		apiErr := c.dbError("delete_database", endpoint, resp)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), "", nil)
		return apiErr
	}
	c.unmarkEnsured(spec)
	c.ops.Record(ctx, entry.AsSuccess(since(start)), "", nil)
	return nil
}

// ResetDatabase deletes then recreates spec's database.
func (c *Client) ResetDatabase(ctx context.Context, spec Spec, label, comment string) error {
	if err := c.DeleteDatabase(ctx, spec); err != nil && !tdberr.IsDocumentNotFound(err) {
		return err
	}
	return c.EnsureDatabase(ctx, spec, label, comment)
}

// DatabaseExists reports whether spec's database exists, consulting the
// cache first.
func (c *Client) DatabaseExists(ctx context.Context, spec Spec) (bool, error) {
	if c.isEnsured(spec) {
		return true, nil
	}
	if err := c.acquireRead(ctx); err != nil {
		return false, tdberr.New(tdberr.Timeout, "database_exists", spec.dbPath(), err)
	}
	defer c.releaseRead()

	resp, err := c.exchange(ctx, http.MethodGet, spec.dbPath(), nil, nil)
	if err != nil {
		return false, err
	}
	if resp.status == http.StatusOK {
		c.markEnsured(spec)
		return true, nil
	}
	if resp.status == http.StatusNotFound {
		return false, nil
	}
	return false, c.dbError("database_exists", spec.dbPath(), resp)
}

// DatabaseInfo is one entry of ListDatabases's result.
type DatabaseInfo struct {
	Name    string `json:"name"`
	Label   string `json:"label,omitempty"`
	Comment string `json:"comment,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// ListDatabases lists every database visible to the configured user.
// branches/verbose mirror the server's own query parameters of the same
// name.
func (c *Client) ListDatabases(ctx context.Context, branches, verbose bool) ([]DatabaseInfo, error) {
	if err := c.acquireRead(ctx); err != nil {
		return nil, tdberr.New(tdberr.Timeout, "list_databases", "db", err)
	}
	defer c.releaseRead()

	q := logParams{Verbose: verbose}.values()
	if branches {
		q.Set("branches", "true")
	}
	resp, err := c.exchange(ctx, http.MethodGet, "db", q, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, c.dbError("list_databases", "db", resp)
	}
	return decodeAPIResponse[[]DatabaseInfo](resp.body, "list_databases", "db")
}

// UpdateDatabase patches spec's label/comment metadata. A nil pointer
// leaves the corresponding field untouched server-side.
func (c *Client) UpdateDatabase(ctx context.Context, spec Spec, label, comment *string) error {
	start := time.Now()
	endpoint := spec.dbPath()

	if err := c.acquireWrite(ctx); err != nil {
		return tdberr.New(tdberr.Timeout, "update_database", endpoint, err)
	}
	defer c.releaseWrite()

	patch := map[string]any{}
	if label != nil {
		patch["label"] = *label
	}
	if comment != nil {
		patch["comment"] = *comment
	}

	resp, err := c.exchange(ctx, http.MethodPut, endpoint, nil, patch)
	entry := oplog.New(oplog.Other, endpoint).WithContext(spec.DB, spec.Branch).WithExtra("update_database")
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return err
	}
	if resp.status < 200 || resp.status >= 300 {
		apiErr := c.dbError("update_database", endpoint, resp)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), "", nil)
		return apiErr
	}
	c.ops.Record(ctx, entry.AsSuccess(since(start)), "", nil)
	return nil
}

// Optimize compacts spec's storage path. A zero timeout uses the
// client's connect timeout.
func (c *Client) Optimize(ctx context.Context, path string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := c.acquireWrite(ctx); err != nil {
		return tdberr.New(tdberr.Timeout, "optimize", path, err)
	}
	defer c.releaseWrite()

	endpoint := joinPath("db", path, "_optimize")
	resp, err := c.exchange(ctx, http.MethodPost, endpoint, nil, nil)
	if err != nil {
		return err
	}
	if resp.status < 200 || resp.status >= 300 {
		return c.dbError("optimize", endpoint, resp)
	}
	return nil
}

// GetPrefixes returns the context prefix map (e.g. "scm", "doc")
// registered for path.
func (c *Client) GetPrefixes(ctx context.Context, path string) (map[string]string, error) {
	if err := c.acquireRead(ctx); err != nil {
		return nil, tdberr.New(tdberr.Timeout, "get_prefixes", path, err)
	}
	defer c.releaseRead()

	endpoint := joinPath("prefixes", path)
	resp, err := c.exchange(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, c.dbError("get_prefixes", endpoint, resp)
	}
	return decodeAPIResponse[map[string]string](resp.body, "get_prefixes", endpoint)
}

// dbError converts a non-2xx response into a *tdberr.ClientError,
// decoding the server's TypedErrorResponse when present and falling
// back to a status-derived kind otherwise.
func (c *Client) dbError(op, endpoint string, resp rawResponse) error {
	var probe TypedErrorResponse
	if err := json.Unmarshal(resp.body, &probe); err == nil && probe.looksLikeError() {
		return probe.asClientError(op, endpoint)
	}
	switch resp.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return tdberr.Newf(tdberr.AuthFailure, op, endpoint, "status %d", resp.status)
	case http.StatusNotFound:
		return tdberr.Newf(tdberr.DocumentNotFound, op, endpoint, "status %d", resp.status)
	case http.StatusBadRequest:
		return tdberr.Newf(tdberr.BadRequest, op, endpoint, "status %d: %s", resp.status, string(resp.body))
	default:
		return tdberr.Newf(tdberr.Other, op, endpoint, "status %d: %s", resp.status, string(resp.body))
	}
}
