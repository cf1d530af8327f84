package tdbhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/terminusdb/terminusdb-go/internal/oplog"
	"github.com/terminusdb/terminusdb-go/tdberr"
	"github.com/terminusdb/terminusdb-go/woql"
)

// WOQLResult is the server's response to a /woql submission (spec §6
// "POST woql body {query: <JSON-LD WOQL>} -> {bindings: [...], deletes,
// inserts, transaction_retry_count}").
type WOQLResult struct {
	Bindings              []map[string]json.RawMessage `json:"bindings"`
	Deletes               int                          `json:"deletes"`
	Inserts               int                          `json:"inserts"`
	TransactionRetryCount int                          `json:"transaction_retry_count"`
}

// Query submits q against spec (spec §4.3 "query(spec?, ast)
// -> WOQLResult<T>"). A zero-value Spec targets the server-wide
// unscoped /woql endpoint.
func (c *Client) Query(ctx context.Context, spec Spec, q woql.Query) (WOQLResult, error) {
	return c.queryRaw(ctx, spec, woql.Envelope(q))
}

// QueryRaw submits an already-built {"query": ...} envelope verbatim
// (spec §4.3 "query_raw(spec?, json)"), bypassing the woql.Builder/AST
// for callers holding a hand-written or externally-sourced query.
func (c *Client) QueryRaw(ctx context.Context, spec Spec, envelope json.RawMessage) (WOQLResult, error) {
	return c.queryRaw(ctx, spec, envelope)
}

func (c *Client) queryRaw(ctx context.Context, spec Spec, envelope json.RawMessage) (WOQLResult, error) {
	if err := c.acquireRead(ctx); err != nil {
		return WOQLResult{}, tdberr.New(tdberr.Timeout, "query", spec.woqlPath(), err)
	}
	defer c.releaseRead()

	start := time.Now()
	endpoint := spec.woqlPath()
	resp, err := c.exchange(ctx, http.MethodPost, endpoint, nil, envelope)
	entry := oplog.New(oplog.Query, endpoint).WithContext(spec.DB, spec.Branch)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return WOQLResult{}, err
	}
	if resp.status != http.StatusOK {
		apiErr := c.dbError("query", endpoint, resp)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), "", nil)
		return WOQLResult{}, apiErr
	}
	result, err := decodeAPIResponse[WOQLResult](resp.body, "query", endpoint)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return WOQLResult{}, err
	}
	n := len(result.Bindings)
	c.ops.Record(ctx, entry.AsSuccess(since(start)), "", &n)
	return result, nil
}

// ExecuteGraphQL submits a GraphQL request against db (optionally a
// specific branch), spec §4.3 "execute_graphql(db, branch?, request,
// timeout?)". A zero timeout uses the client's connect timeout.
func (c *Client) ExecuteGraphQL(ctx context.Context, db, branch string, request json.RawMessage, timeout time.Duration) (json.RawMessage, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := c.acquireRead(ctx); err != nil {
		return nil, tdberr.New(tdberr.Timeout, "execute_graphql", db, err)
	}
	defer c.releaseRead()

	spec := Spec{DB: db, Branch: branch}
	start := time.Now()
	endpoint := spec.graphqlPath()
	resp, err := c.exchange(ctx, http.MethodPost, endpoint, nil, request)
	entry := oplog.New(oplog.GraphQL, endpoint).WithContext(db, branch)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return nil, err
	}
	if resp.status != http.StatusOK {
		apiErr := c.dbError("execute_graphql", endpoint, resp)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), "", nil)
		return nil, apiErr
	}
	c.ops.Record(ctx, entry.AsSuccess(since(start)), "", nil)
	return json.RawMessage(resp.body), nil
}
