// Package tdberr defines the error taxonomy shared by every subsystem of
// the client: schema validation, JSON-LD decoding, HTTP transport and the
// ORM query planner all report failures through the same small set of
// kinds so callers can branch with errors.Is/errors.As regardless of
// which layer produced the error.
package tdberr

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies the cause of a ClientError. Kinds are coarse on purpose:
// they distinguish what a caller might want to branch on (retry? surface to
// user? log and continue?), not every possible failure detail.
type Kind int

const (
	// Other covers failures that do not fit a more specific kind. The
	// server-provided message, if any, is preserved on the error.
	Other Kind = iota
	// Transport is a TCP/TLS/connection-reset failure before any HTTP
	// response was received.
	Transport
	// AuthFailure is a 401/403 response from the server.
	AuthFailure
	// BadRequest is a malformed client-side request body rejected before
	// any server-side processing took place.
	BadRequest
	// DocumentNotFound is a GET on a document that does not exist.
	DocumentNotFound
	// SchemaCheckFailure is an insert that violates schema constraints.
	SchemaCheckFailure
	// BadCast is a WOQL typecast rejected by the server.
	BadCast
	// ConflictingCommit is a concurrent write race detected by the server.
	ConflictingCommit
	// HeaderMissing is raised when a write response lacks the expected
	// TerminusDB-Data-Version header.
	HeaderMissing
	// Deserialization is raised when a response body does not map to the
	// shape the caller expected.
	Deserialization
	// Validation classifies an instance-validation failure.
	// tdbinstance.ValidateInstance returns tdbschema.ValidationErrors
	// directly and does not raise this kind.
	Validation
	// RelationUnresolved is raised when the ORM's GraphQL probe response
	// is missing an _id the planner expected.
	RelationUnresolved
	// Timeout is raised when a wall-clock ceiling (request timeout, or
	// the commit-walk fallback's bound) is exceeded.
	Timeout
)

// String returns a lowercase, stable name for the kind, suitable for log
// fields and error messages.
func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case AuthFailure:
		return "auth_failure"
	case BadRequest:
		return "bad_request"
	case DocumentNotFound:
		return "document_not_found"
	case SchemaCheckFailure:
		return "schema_check_failure"
	case BadCast:
		return "bad_cast"
	case ConflictingCommit:
		return "conflicting_commit"
	case HeaderMissing:
		return "header_missing"
	case Deserialization:
		return "deserialization"
	case Validation:
		return "validation"
	case RelationUnresolved:
		return "relation_unresolved"
	case Timeout:
		return "timeout"
	default:
		return "other"
	}
}

// ClientError is the concrete error type returned by every operation that
// can fail against the remote server. It always carries the operation tag,
// endpoint and duration required by spec §7's "every error carries an
// operation tag, an endpoint string, a duration" contract.
type ClientError struct {
	Kind     Kind
	Op       string        // e.g. "insert_instance", "get_document"
	Endpoint string        // e.g. "document/admin/mydb"
	Duration time.Duration
	Cause    error
	Message  string // server-provided free-form message, if any
}

// Error implements error.
func (e *ClientError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op == "" {
		return fmt.Sprintf("tdb: %s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("tdb: %s(%s): %s: %s", e.Op, e.Endpoint, e.Kind, msg)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *ClientError) Unwrap() error { return e.Cause }

// Is reports whether target is a sentinel of the same kind, so that
// errors.Is(err, tdberr.ErrDocumentNotFound) works without callers needing
// to type-assert *ClientError themselves.
func (e *ClientError) Is(target error) bool {
	var k Kind
	switch {
	case errors.Is(target, ErrTransport):
		k = Transport
	case errors.Is(target, ErrAuthFailure):
		k = AuthFailure
	case errors.Is(target, ErrBadRequest):
		k = BadRequest
	case errors.Is(target, ErrDocumentNotFound):
		k = DocumentNotFound
	case errors.Is(target, ErrSchemaCheckFailure):
		k = SchemaCheckFailure
	case errors.Is(target, ErrBadCast):
		k = BadCast
	case errors.Is(target, ErrConflictingCommit):
		k = ConflictingCommit
	case errors.Is(target, ErrHeaderMissing):
		k = HeaderMissing
	case errors.Is(target, ErrDeserialization):
		k = Deserialization
	case errors.Is(target, ErrValidation):
		k = Validation
	case errors.Is(target, ErrRelationUnresolved):
		k = RelationUnresolved
	case errors.Is(target, ErrTimeout):
		k = Timeout
	default:
		return false
	}
	return e.Kind == k
}

// Sentinel errors, one per Kind, for use with errors.Is when the caller
// does not need the full ClientError context.
var (
	ErrTransport          = errors.New("tdb: transport error")
	ErrAuthFailure        = errors.New("tdb: authentication failure")
	ErrBadRequest         = errors.New("tdb: bad request")
	ErrDocumentNotFound   = errors.New("tdb: document not found")
	ErrSchemaCheckFailure = errors.New("tdb: schema check failure")
	ErrBadCast            = errors.New("tdb: bad cast")
	ErrConflictingCommit  = errors.New("tdb: conflicting commit")
	ErrHeaderMissing      = errors.New("tdb: data-version header missing")
	ErrDeserialization    = errors.New("tdb: deserialization error")
	ErrValidation         = errors.New("tdb: validation error")
	ErrRelationUnresolved = errors.New("tdb: relation unresolved")
	ErrTimeout            = errors.New("tdb: timeout")
)

// New builds a *ClientError for the given kind, carrying op/endpoint/cause.
func New(kind Kind, op, endpoint string, cause error) *ClientError {
	return &ClientError{Kind: kind, Op: op, Endpoint: endpoint, Cause: cause}
}

// Newf builds a *ClientError with a formatted message instead of a cause.
func Newf(kind Kind, op, endpoint, format string, a ...any) *ClientError {
	return &ClientError{Kind: kind, Op: op, Endpoint: endpoint, Message: fmt.Sprintf(format, a...)}
}

// WithDuration returns a copy of e with Duration set, for wrapping a
// ClientError once the elapsed operation time is known.
func (e *ClientError) WithDuration(d time.Duration) *ClientError {
	cp := *e
	cp.Duration = d
	return &cp
}

// Is<Kind> helpers mirror velox's IsNotFound/IsConstraintError style: a
// one-line predicate callers can use without importing "errors" directly.

// IsDocumentNotFound reports whether err is (or wraps) a DocumentNotFound error.
func IsDocumentNotFound(err error) bool { return isKind(err, DocumentNotFound) }

// IsAuthFailure reports whether err is (or wraps) an AuthFailure error.
func IsAuthFailure(err error) bool { return isKind(err, AuthFailure) }

// IsSchemaCheckFailure reports whether err is (or wraps) a SchemaCheckFailure error.
func IsSchemaCheckFailure(err error) bool { return isKind(err, SchemaCheckFailure) }

// IsConflictingCommit reports whether err is (or wraps) a ConflictingCommit error.
func IsConflictingCommit(err error) bool { return isKind(err, ConflictingCommit) }

// IsTimeout reports whether err is (or wraps) a Timeout error.
func IsTimeout(err error) bool { return isKind(err, Timeout) }

// IsValidation reports whether err is (or wraps) a Validation error.
func IsValidation(err error) bool { return isKind(err, Validation) }

// IsDeserialization reports whether err is (or wraps) a Deserialization error.
func IsDeserialization(err error) bool { return isKind(err, Deserialization) }

func isKind(err error, k Kind) bool {
	if err == nil {
		return false
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind == k
	}
	return false
}
