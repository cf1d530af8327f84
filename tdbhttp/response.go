package tdbhttp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/terminusdb/terminusdb-go/tdberr"
)

// TypedErrorResponse is the server's error envelope, spec §6 "Error
// envelope: {"@type": "api:<kind>Error", "api:error": {...},
// "api:message": "...", "api:status": "api:..."}".
type TypedErrorResponse struct {
	Type    string          `json:"@type"`
	Error   json.RawMessage `json:"api:error"`
	Message string          `json:"api:message"`
	Status  string          `json:"api:status"`
}

// errorKind maps the envelope's @type tag to a tdberr.Kind. Unrecognized
// tags fall back to tdberr.Other, preserving the server's own message
// rather than inventing one.
func (e TypedErrorResponse) errorKind() tdberr.Kind {
	name := strings.TrimSuffix(strings.TrimPrefix(e.Type, "api:"), "Error")
	switch name {
	case "DocumentNotFound", "NotFound":
		return tdberr.DocumentNotFound
	case "SchemaCheckFailure", "SchemaValidation":
		return tdberr.SchemaCheckFailure
	case "BadCast", "CastFailure":
		return tdberr.BadCast
	case "ConflictingCommit", "Conflict":
		return tdberr.ConflictingCommit
	case "BadRequest", "InvalidRequest":
		return tdberr.BadRequest
	case "Unauthorized", "Forbidden", "AuthFailure":
		return tdberr.AuthFailure
	default:
		return tdberr.Other
	}
}

// asClientError turns the envelope into a *tdberr.ClientError tagged
// with op/endpoint, preferring the server's api:message over the raw
// api:error payload.
func (e TypedErrorResponse) asClientError(op, endpoint string) *tdberr.ClientError {
	msg := e.Message
	if msg == "" && len(e.Error) > 0 {
		msg = string(e.Error)
	}
	return tdberr.Newf(e.errorKind(), op, endpoint, "%s", msg)
}

// looksLikeError reports whether a decoded envelope carries either an
// api:error payload or an @type ending in "Error" — spec §4.3 "An error
// whose shape carries api:error is converted to a structured error;
// payloads with ambiguous api:error presence but otherwise typed as
// success are asserted against."
func (e TypedErrorResponse) looksLikeError() bool {
	return len(e.Error) > 0 || strings.HasSuffix(e.Type, "Error")
}

// decodeAPIResponse decodes body into T, first checking whether it is
// shaped like a TypedErrorResponse (spec §4.3 "ApiResponse<T> — a sum
// over Success(T) and Error(TypedErrorResponse)").
func decodeAPIResponse[T any](body []byte, op, endpoint string) (T, error) {
	var zero T

	var probe TypedErrorResponse
	if err := json.Unmarshal(body, &probe); err == nil && probe.looksLikeError() {
		return zero, probe.asClientError(op, endpoint)
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, tdberr.New(tdberr.Deserialization, op, endpoint, fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}

// dataVersionCommit strips the "{branch-label}:" prefix off a
// TerminusDB-Data-Version header value, exposing just the commit hash
// (spec §4.3 "the client strips the prefix and exposes just the hash").
func dataVersionCommit(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	_, hash, ok := strings.Cut(header, ":")
	if !ok {
		return header, true
	}
	return hash, true
}

// ResponseWithHeaders pairs a decoded write response with the commit
// hash captured from its TerminusDB-Data-Version header.
type ResponseWithHeaders[T any] struct {
	Data     T
	CommitID string
}
