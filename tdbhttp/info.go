package tdbhttp

import (
	"context"
	"encoding/json"
	"net/http"
)

// ServerInfo is the server's self-reported identity, returned by Info and
// TryInfo (spec §4.3 "info() / try_info() for readiness probing").
type ServerInfo struct {
	Info map[string]json.RawMessage `json:"info"`
}

// Info fetches the server's info document, failing on any non-2xx
// response or transport error.
func (c *Client) Info(ctx context.Context) (ServerInfo, error) {
	if err := c.acquireRead(ctx); err != nil {
		return ServerInfo{}, err
	}
	defer c.releaseRead()

	resp, err := c.exchange(ctx, http.MethodGet, "info", nil, nil)
	if err != nil {
		return ServerInfo{}, err
	}
	if resp.status != http.StatusOK {
		return ServerInfo{}, c.dbError("info", "info", resp)
	}
	return decodeAPIResponse[ServerInfo](resp.body, "info", "info")
}

// TryInfo is Info with errors swallowed into a boolean, for a cheap
// readiness check (e.g. at process startup) that does not need the
// failure detail.
func (c *Client) TryInfo(ctx context.Context) bool {
	_, err := c.Info(ctx)
	return err == nil
}
