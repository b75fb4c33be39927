package agent

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// CanReach issues a GET to endpoint and reports whether it answered exactly
// 200. Every failure, including a timeout, is reported as false.
func (c *Client) CanReach(ctx context.Context, endpoint string) bool {
	ctx, span := c.ins.Tracer("swivel.outbound.agent").Start(ctx, "CanReach")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		slog.WarnContext(ctx, "agent: invalid probe endpoint", "endpoint", endpoint, "error", err)
		return false
	}

	resp, err := c.probeClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "agent: probe failed", "endpoint", endpoint, "error", err)
		return false
	}
	defer resp.Body.Close()
	//nolint:errcheck // drained for connection reuse
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "agent: probe got non-200 status", "endpoint", endpoint, "status", resp.StatusCode)
		return false
	}

	return true
}
