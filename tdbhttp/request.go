package tdbhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/terminusdb/terminusdb-go/tdberr"
)

// rawResponse is the low-level result of one HTTP exchange: the decoded
// body bytes, the status code and the TerminusDB-Data-Version header
// (already stripped to a bare commit hash).
type rawResponse struct {
	status   int
	body     []byte
	commitID string
}

// exchange issues one HTTP request against path, with HTTP Basic auth
// and a JSON content-type on writes (spec §4.3 "Authentication: HTTP
// Basic with user/pass. Content-type application/json."). It does not
// acquire a permit or touch the operation log — callers (database.go,
// document.go, query.go, commitlog.go) do that around the call so they
// can record op-specific context (db/branch, extra).
func (c *Client) exchange(ctx context.Context, method, path string, query url.Values, body any) (rawResponse, error) {
	target, err := c.buildURL(path, query)
	if err != nil {
		return rawResponse{}, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return rawResponse{}, tdberr.New(tdberr.BadRequest, method, path, fmt.Errorf("marshal request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return rawResponse{}, tdberr.New(tdberr.BadRequest, method, path, fmt.Errorf("build request: %w", err))
	}
	req.SetBasicAuth(c.cfg.User, c.cfg.Password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rawResponse{}, tdberr.New(tdberr.Transport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return rawResponse{}, tdberr.New(tdberr.Transport, method, path, fmt.Errorf("read response body: %w", err))
	}

	commit, _ := dataVersionCommit(resp.Header.Get("TerminusDB-Data-Version"))
	return rawResponse{status: resp.StatusCode, body: data, commitID: commit}, nil
}

// dumpDiagnostic best-effort writes body under c.diagDir, named
// tdb-{kind}-YYYYMMDDHHMMSS.log.json (spec §6 "Observable side
// effects... these are best-effort and never block on failure"). A
// write failure is logged and otherwise ignored.
func (c *Client) dumpDiagnostic(kind string, body []byte) {
	if c.diagDir == "" {
		return
	}
	name := fmt.Sprintf("tdb-%s-%s.log.json", kind, time.Now().Format("20060102150405"))
	path := filepath.Join(c.diagDir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		c.logger.WithError(err).WithField("path", path).Warn("tdbhttp: diagnostic dump failed")
	}
}
