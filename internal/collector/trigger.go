// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/harvest/internal/httputil"
)

// TriggerOutput holds the job identifier extracted from a trigger response
// along with the full response body for display.
type TriggerOutput struct {
	JobID    string
	Response json.RawMessage
}

// triggerResponse covers the identifier field names the vendor has been
// observed to return. The first non-empty one wins.
type triggerResponse struct {
	ResponseID string `json:"response_id"`
	ID         string `json:"id"`
	JobID      string `json:"job_id"`
}

func (r triggerResponse) jobID() string {
	switch {
	case r.ResponseID != "":
		return r.ResponseID
	case r.ID != "":
		return r.ID
	default:
		return r.JobID
	}
}

// Trigger submits a collector job for keyword and returns the job
// identifier. Unlike polling, triggering is fail-fast: transport errors,
// non-200 statuses, unparseable bodies, and responses without a recognizable
// identifier are all returned as errors. Only rate limiting (HTTP 429) is
// retried, with backoff, before giving up.
func (c *Client) Trigger(ctx context.Context, keyword string, w io.Writer) (TriggerOutput, error) {
	if keyword == "" {
		return TriggerOutput{}, fmt.Errorf("empty keyword")
	}

	params := url.Values{
		"collector":  {c.Config.CollectorID},
		"queue_next": {"1"},
	}
	reqURL := triggerBase + "?" + params.Encode()

	body, err := json.Marshal(map[string]string{"keyword": keyword})
	if err != nil {
		return TriggerOutput{}, fmt.Errorf("encoding trigger payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return TriggerOutput{}, fmt.Errorf("creating trigger request: %w", err)
	}
	c.authorize(req)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0, w)
	if err != nil {
		return TriggerOutput{}, fmt.Errorf("collector API request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return TriggerOutput{}, fmt.Errorf("reading trigger response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return TriggerOutput{}, fmt.Errorf("collector API returned HTTP %d: %s", resp.StatusCode, respBody)
	}

	var tr triggerResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return TriggerOutput{}, fmt.Errorf("parsing trigger response: %w", err)
	}

	jobID := tr.jobID()
	if jobID == "" {
		return TriggerOutput{}, fmt.Errorf("no job identifier in trigger response: %s", respBody)
	}

	return TriggerOutput{JobID: jobID, Response: json.RawMessage(respBody)}, nil
}
