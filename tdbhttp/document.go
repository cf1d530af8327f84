package tdbhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/terminusdb/terminusdb-go/internal/oplog"
	"github.com/terminusdb/terminusdb-go/tdberr"
	"github.com/terminusdb/terminusdb-go/tdbinstance"
	"github.com/terminusdb/terminusdb-go/tdbmodel"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

// DocumentOpts configures a document read: whether nested subdocuments
// are unfolded inline and whether a single-id lookup is still wrapped in
// a list (spec §4.3 "document/{org}/{db}[...]?id=&unfold=&as_list=").
type DocumentOpts struct {
	Unfold bool
	AsList bool
}

// InsertArgs carries the write-side parameters common to every insert
// operation (spec §3 "DocumentInsertArgs").
type InsertArgs struct {
	Spec    Spec
	Author  string
	Message string
	Force   bool // true overrides the "already exists, skip" short-circuit
}

// InsertOutcome is one element of an InsertResult: either a freshly
// inserted id or one the server (or the pre-write has_instance probe)
// already held.
type InsertOutcome struct {
	ID             string
	AlreadyExisted bool
}

// InsertResult is the return value of every insert_* operation: the
// per-document outcomes plus the commit hash captured from the write's
// TerminusDB-Data-Version header, when present (spec §4.3 step 6).
type InsertResult struct {
	Outcomes []InsertOutcome
	CommitID string
}

// GetDocument fetches the raw JSON-LD document named id (spec §4.3
// "get_document(id, spec, opts)"). spec.Commit set rewrites the path to
// /local/commit/{hash} for a point-in-time read.
func (c *Client) GetDocument(ctx context.Context, spec Spec, id string, opts DocumentOpts) (json.RawMessage, error) {
	if err := c.acquireRead(ctx); err != nil {
		return nil, tdberr.New(tdberr.Timeout, "get_document", spec.documentPath(), err)
	}
	defer c.releaseRead()

	start := time.Now()
	endpoint := spec.documentPath()
	q := documentReadParams{ID: id, Unfold: opts.Unfold, AsList: opts.AsList}.values()

	resp, err := c.exchange(ctx, http.MethodGet, endpoint, q, nil)
	entry := oplog.New(oplog.GetDocument, endpoint).WithContext(spec.DB, spec.Branch)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), id, nil)
		return nil, err
	}
	if resp.status != http.StatusOK {
		apiErr := c.dbError("get_document", endpoint, resp)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), id, nil)
		return nil, apiErr
	}
	c.ops.Record(ctx, entry.AsSuccess(since(start)), id, nil)
	return json.RawMessage(resp.body), nil
}

// GetDocuments batch-fetches every id in ids as a single request (repeated
// ?id= params, ?as_list=true), the read side of the ORM's "one batch
// document read" contract (spec §4.5 step 2). An empty ids returns an
// empty slice without making a request.
func (c *Client) GetDocuments(ctx context.Context, spec Spec, ids []string, opts DocumentOpts) ([]json.RawMessage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := c.acquireRead(ctx); err != nil {
		return nil, tdberr.New(tdberr.Timeout, "get_documents", spec.documentPath(), err)
	}
	defer c.releaseRead()

	start := time.Now()
	endpoint := spec.documentPath()
	q := url.Values{}
	for _, id := range ids {
		q.Add("id", id)
	}
	if opts.Unfold {
		q.Set("unfold", "true")
	}
	q.Set("as_list", "true")

	resp, err := c.exchange(ctx, http.MethodGet, endpoint, q, nil)
	entry := oplog.New(oplog.GetDocument, endpoint).WithContext(spec.DB, spec.Branch)
	if err != nil {
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), fmt.Sprintf("%d ids", len(ids)), nil)
		return nil, err
	}
	if resp.status != http.StatusOK {
		apiErr := c.dbError("get_documents", endpoint, resp)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), fmt.Sprintf("%d ids", len(ids)), nil)
		return nil, apiErr
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(resp.body, &docs); err != nil {
		c.dumpDiagnostic("serialize-failure", resp.body)
		apiErr := tdberr.New(tdberr.Deserialization, "get_documents", endpoint, err)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), fmt.Sprintf("%d ids", len(ids)), nil)
		return nil, apiErr
	}
	n := len(docs)
	c.ops.Record(ctx, entry.AsSuccess(since(start)), fmt.Sprintf("%d ids", len(ids)), &n)
	return docs, nil
}

// HasDocument reports whether id exists, without decoding its body (spec
// §4.3 "has_document(id, spec)").
func (c *Client) HasDocument(ctx context.Context, spec Spec, id string) (bool, error) {
	if err := c.acquireRead(ctx); err != nil {
		return false, tdberr.New(tdberr.Timeout, "has_document", spec.documentPath(), err)
	}
	defer c.releaseRead()

	endpoint := spec.documentPath()
	q := documentReadParams{ID: id}.values()
	resp, err := c.exchange(ctx, http.MethodGet, endpoint, q, nil)
	if err != nil {
		return false, err
	}
	switch resp.status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, c.dbError("has_document", endpoint, resp)
	}
}

// schemaResolverFor adapts tdbmodel's runtime registry to
// tdbinstance.SchemaResolver, so decoding a server response can recurse
// into referenced classes without the caller threading a schema graph by
// hand.
func schemaResolverFor(className string) (tdbschema.Schema, bool) {
	conformer, ok := tdbmodel.LookupByName(className)
	if !ok {
		return nil, false
	}
	return conformer.ToSchema(), true
}

// GetInstance fetches id and decodes it as a T via T's registered
// conformance (spec §4.3 "get_instance::<T>(id, spec)").
func GetInstance[T any](ctx context.Context, c *Client, spec Spec, id string) (T, error) {
	var zero T
	schema, err := tdbmodel.ToSchemaFor[T]()
	if err != nil {
		return zero, err
	}
	raw, err := c.GetDocument(ctx, spec, id, DocumentOpts{Unfold: true})
	if err != nil {
		return zero, err
	}
	inst, err := tdbinstance.DecodeInstance(schema, raw, tdbinstance.DecodeOptions{Resolve: schemaResolverFor})
	if err != nil {
		return zero, err
	}
	return tdbmodel.DecodeFor[T](inst)
}

// GetInstanceVersions reads one page of the branch's commit log (newest
// first, page size left to the server) and decodes id's document as it
// stood at each of those commits (spec §4.3 "get_instance::<T>... walks
// history"). Every commit of the page is tried, whether or not it touched
// id, so an unchanged document appears once per such commit; commits
// beyond the first page are not read. A commit whose document read fails
// (e.g. the id did not exist yet at that point) is skipped rather than
// aborting the whole walk.
func GetInstanceVersions[T any](ctx context.Context, c *Client, spec Spec, id string) ([]T, error) {
	schema, err := tdbmodel.ToSchemaFor[T]()
	if err != nil {
		return nil, err
	}
	entries, err := c.Log(ctx, spec, LogOpts{})
	if err != nil {
		return nil, err
	}

	var out []T
	for _, entry := range entries {
		commitSpec := spec.AtCommit(entry.Identifier)
		raw, err := c.GetDocument(ctx, commitSpec, id, DocumentOpts{Unfold: true})
		if err != nil {
			continue
		}
		inst, err := tdbinstance.DecodeInstance(schema, raw, tdbinstance.DecodeOptions{Resolve: schemaResolverFor})
		if err != nil {
			continue
		}
		v, err := tdbmodel.DecodeFor[T](inst)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// InstanceResolver adapts a *Client plus the Spec it should read T from
// into a tdbmodel.Resolver[T], so TdbLazy[T].Get can be driven against a
// real server. tdbmodel.Resolver's method cannot itself be generic (Go
// disallows type parameters on methods), so the type parameter lives on
// this wrapper instead.
type InstanceResolver[T any] struct {
	Client *Client
	Spec   Spec
}

// GetInstance implements tdbmodel.Resolver[T].
func (r InstanceResolver[T]) GetInstance(ctx context.Context, id string) (T, error) {
	return GetInstance[T](ctx, r.Client, r.Spec, id)
}

// InsertEntitySchema inserts T's full schema tree (T plus every class it
// transitively references) as schema documents (spec §4.3
// "insert_entity_schema::<T>(args)").
func InsertEntitySchema[T any](ctx context.Context, c *Client, args InsertArgs) (InsertResult, error) {
	tree, err := tdbmodel.SchemaTreeFor[T]()
	if err != nil {
		return InsertResult{}, err
	}
	docs := make([]json.RawMessage, len(tree))
	for i, s := range tree {
		docs[i] = EncodeSchema(s)
	}
	return c.insertDocuments(ctx, docs, args, "schema", oplog.Other)
}

// InsertDocuments PUTs docs verbatim as instance documents (spec §4.3
// "insert_documents(docs, args)") — no flatten/dedupe contract is applied
// since the caller already has JSON-LD in hand.
func (c *Client) InsertDocuments(ctx context.Context, docs []json.RawMessage, args InsertArgs) (InsertResult, error) {
	return c.insertDocuments(ctx, docs, args, "instance", oplog.InsertDocument)
}

// InsertDocument is InsertDocuments for a single document (spec §4.3
// "insert_document(doc, args)").
func (c *Client) InsertDocument(ctx context.Context, doc json.RawMessage, args InsertArgs) (InsertResult, error) {
	return c.InsertDocuments(ctx, []json.RawMessage{doc}, args)
}

// InsertInstance lifts model to an Instance tree and runs the full
// six-step insert contract (spec §4.3 "Insert contract (single
// instance)").
func InsertInstance[T tdbmodel.Instancer](ctx context.Context, c *Client, model T, args InsertArgs) (InsertResult, error) {
	return InsertInstances(ctx, c, []T{model}, args)
}

// InsertInstances runs the insert contract across every model, sharing
// one capture-variable counter and one PUT body so cross-model
// TransactionRefs resolve within the same batch (spec §4.3
// "insert_instances(models, args)").
func InsertInstances[T tdbmodel.Instancer](ctx context.Context, c *Client, models []T, args InsertArgs) (InsertResult, error) {
	var roots []tdbinstance.Instance
	for _, m := range models {
		inst, err := m.ToInstance()
		if err != nil {
			return InsertResult{}, err
		}
		roots = append(roots, inst)
	}
	return c.runInsertContract(ctx, roots, args)
}

// InsertInstanceWithCommitID is InsertInstance, additionally resolving
// the write's commit hash via the commit-walk fallback when the
// TerminusDB-Data-Version header is absent and the instance already
// existed (spec §4.3 "Insert commit-ID resolution fallback").
func InsertInstanceWithCommitID[T tdbmodel.Instancer](ctx context.Context, c *Client, model T, args InsertArgs) (InsertResult, error) {
	result, err := InsertInstance(ctx, c, model, args)
	if err != nil {
		return result, err
	}
	if result.CommitID != "" || len(result.Outcomes) == 0 {
		return result, nil
	}
	target := result.Outcomes[0].ID
	commit, err := c.findCommitAdding(ctx, args.Spec, target)
	if err != nil {
		return result, err
	}
	result.CommitID = commit
	return result, nil
}

// runInsertContract implements the six numbered steps against an already
// lifted slice of root instances.
func (c *Client) runInsertContract(ctx context.Context, roots []tdbinstance.Instance, args InsertArgs) (InsertResult, error) {
	var outcomes []InsertOutcome
	var toSubmit []tdbinstance.Instance

	for i := range roots {
		root := &roots[i]
		// Step 1: annotate capture nodes with a random key prefix.
		tdbinstance.ApplyCapturePrefixes(root)

		if !args.Force && root.ID != nil {
			exists, err := c.HasDocument(ctx, args.Spec, *root.ID)
			if err != nil {
				return InsertResult{}, err
			}
			if exists {
				outcomes = append(outcomes, InsertOutcome{ID: *root.ID, AlreadyExisted: true})
				continue
			}
		}

		extracted := tdbinstance.Flatten(root, tdbinstance.FlattenTransactional)
		// Step 2: strip pure references — extracted nodes that carry an
		// id but no properties of their own are nothing but a pointer to
		// already-persisted data and need no re-submission. Spec §4.3
		// gives no wire-shape detail for this step; this is the
		// documented judgment call (see DESIGN.md).
		extracted = stripPureReferences(extracted)

		toSubmit = append(toSubmit, extracted...)
		toSubmit = append(toSubmit, *root)
	}

	if len(toSubmit) == 0 {
		return InsertResult{Outcomes: outcomes}, nil
	}

	// Step 3: dedupe by @id, first-seen wins.
	counter := &tdbinstance.CaptureCounter{}
	docs, err := buildInsertDocuments(toSubmit, counter)
	if err != nil {
		return InsertResult{}, err
	}

	written, err := c.insertDocuments(ctx, docs, args, "instance", oplog.InsertDocument)
	if err != nil {
		return InsertResult{}, err
	}
	written.Outcomes = append(outcomes, written.Outcomes...)
	return written, nil
}

// stripPureReferences drops instances that carry an id but no properties
// — i.e. nothing but an already-persisted reference pulled in as an
// extraction artifact of Flatten.
func stripPureReferences(instances []tdbinstance.Instance) []tdbinstance.Instance {
	out := instances[:0:0]
	for _, inst := range instances {
		if inst.ID != nil && inst.Properties.Len() == 0 {
			continue
		}
		out = append(out, inst)
	}
	return out
}

// buildInsertDocuments encodes every instance and deduplicates by @id,
// first-seen wins: the source's dedup_documents_by_id keeps the first
// document for a repeated @id (spec §9 open question), which overrides
// spec.md §4.3 step 3's "last write wins" wording. Capture-only
// instances (no @id) are never duplicates of one another and are all
// kept.
func buildInsertDocuments(instances []tdbinstance.Instance, counter *tdbinstance.CaptureCounter) ([]json.RawMessage, error) {
	var order []string
	byID := make(map[string]json.RawMessage)
	var captureOnly []json.RawMessage

	for _, inst := range instances {
		raw, err := tdbinstance.EncodeInstance(inst, counter)
		if err != nil {
			return nil, err
		}
		if inst.ID == nil {
			captureOnly = append(captureOnly, raw)
			continue
		}
		id := *inst.ID
		if _, seen := byID[id]; !seen {
			order = append(order, id)
			byID[id] = raw
		}
	}

	docs := make([]json.RawMessage, 0, len(order)+len(captureOnly))
	for _, id := range order {
		docs = append(docs, byID[id])
	}
	docs = append(docs, captureOnly...)
	return docs, nil
}

// insertDocuments is the shared PUT path for every insert_* operation:
// it writes docs under graphType, parses the inserted-id list and
// attaches the captured commit hash (spec §4.3 steps 5-6).
func (c *Client) insertDocuments(ctx context.Context, docs []json.RawMessage, args InsertArgs, graphType string, opType oplog.Type) (InsertResult, error) {
	if err := c.acquireWrite(ctx); err != nil {
		return InsertResult{}, tdberr.New(tdberr.Timeout, "insert_documents", args.Spec.documentPath(), err)
	}
	defer c.releaseWrite()

	start := time.Now()
	endpoint := args.Spec.documentPath()
	q := documentWriteParams{Author: args.Author, Message: args.Message, GraphType: graphType, Create: true}.values()

	resp, err := c.exchange(ctx, http.MethodPut, endpoint, q, docs)
	entry := oplog.New(opType, endpoint).WithContext(args.Spec.DB, args.Spec.Branch)
	if err != nil {
		c.dumpDiagnostic("failed-request", []byte(err.Error()))
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return InsertResult{}, err
	}
	if resp.status < 200 || resp.status >= 300 {
		apiErr := c.dbError("insert_documents", endpoint, resp)
		c.dumpDiagnostic("failed-request", resp.body)
		c.ops.Record(ctx, entry.AsFailure(apiErr.Error(), since(start)), "", nil)
		return InsertResult{}, apiErr
	}

	insertedIDs, err := decodeAPIResponse[[]string](resp.body, "insert_documents", endpoint)
	if err != nil {
		c.dumpDiagnostic("serialize-failure", resp.body)
		c.ops.Record(ctx, entry.AsFailure(err.Error(), since(start)), "", nil)
		return InsertResult{}, err
	}

	outcomes := make([]InsertOutcome, len(insertedIDs))
	for i, id := range insertedIDs {
		outcomes[i] = InsertOutcome{ID: id}
	}
	n := len(outcomes)
	c.ops.Record(ctx, entry.AsSuccess(since(start)), "", &n)
	return InsertResult{Outcomes: outcomes, CommitID: resp.commitID}, nil
}
