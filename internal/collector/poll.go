// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/harvest/pkg/types"
)

// ErrPollTimeout is returned when the job does not complete before the
// configured wall-clock deadline.
var ErrPollTimeout = errors.New("poll deadline exceeded")

// PollOutput holds the final payload and loop statistics.
type PollOutput struct {
	Payload  json.RawMessage
	Attempts int
	Elapsed  time.Duration
}

// Poll requests the job's result once per interval until Classify reports
// the final payload or the deadline passes. Transport errors and
// still-running responses are indistinguishable to the loop: both wait one
// interval and retry, and neither aborts it early. The deadline is checked
// once per iteration, so overrun can reach one interval; cancelling ctx
// interrupts the wait immediately. Progress goes to w.
func (c *Client) Poll(ctx context.Context, jobID string, cfg types.PollConfig, w io.Writer) (PollOutput, error) {
	if jobID == "" {
		return PollOutput{}, fmt.Errorf("empty job identifier")
	}

	params := url.Values{"response_id": {jobID}}
	reqURL := resultBase + "?" + params.Encode()

	start := time.Now()
	deadline := start.Add(cfg.Timeout)

	attempts := 0
	for time.Now().Before(deadline) {
		attempts++
		fmt.Fprintf(w, "[attempt %d] checking status (elapsed %s)\n",
			attempts, time.Since(start).Round(time.Second))

		verdict, err := c.fetchResult(ctx, reqURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return PollOutput{Attempts: attempts, Elapsed: time.Since(start)}, ctx.Err()
			}
			fmt.Fprintf(w, "network error, will retry: %v\n", err)
		case verdict.Done:
			return PollOutput{
				Payload:  verdict.Payload,
				Attempts: attempts,
				Elapsed:  time.Since(start),
			}, nil
		default:
			fmt.Fprintf(w, "still running: %s\n", verdict.Reason)
		}

		select {
		case <-ctx.Done():
			return PollOutput{Attempts: attempts, Elapsed: time.Since(start)}, ctx.Err()
		case <-time.After(cfg.Interval):
		}
	}

	return PollOutput{Attempts: attempts, Elapsed: time.Since(start)}, ErrPollTimeout
}

// fetchResult performs one status request and classifies the response.
func (c *Client) fetchResult(ctx context.Context, reqURL string) (Verdict, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Verdict{}, fmt.Errorf("creating result request: %w", err)
	}
	c.authorize(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return Verdict{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Verdict{}, err
	}

	return Classify(resp.StatusCode, body), nil
}
