// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// runningStatuses are the object status values that mean the job is still
// in progress, matched case-insensitively.
var runningStatuses = map[string]bool{
	"running":    true,
	"pending":    true,
	"processing": true,
}

// Verdict is the outcome of classifying one poll response.
type Verdict struct {
	// Done is true when the response carries the final payload.
	Done bool

	// Payload holds the parsed final payload when Done is true.
	Payload json.RawMessage

	// Reason explains, for progress output, why the job is considered
	// still running. Empty when Done is true.
	Reason string
}

// Classify decides whether a poll response is the final payload or a
// still-running indicator. A response is final only when the status code is
// 200, the body is non-empty valid JSON, and, for an object body, any
// status field is outside the running set. Everything else (error statuses,
// empty or unparseable bodies, empty objects) classifies as still running;
// the poll loop retries rather than aborting.
func Classify(statusCode int, body []byte) Verdict {
	if statusCode != http.StatusOK {
		return Verdict{Reason: fmt.Sprintf("HTTP %d", statusCode)}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Verdict{Reason: "empty response"}
	}

	if !json.Valid(trimmed) {
		// Some in-progress responses are plain text like "running".
		if strings.Contains(strings.ToLower(string(trimmed)), "running") {
			return Verdict{Reason: "job reports running"}
		}
		return Verdict{Reason: "unrecognized non-JSON response"}
	}

	if trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return Verdict{Reason: "unparseable JSON object"}
		}
		if len(obj) == 0 {
			return Verdict{Reason: "empty JSON object"}
		}
		if rawStatus, ok := obj["status"]; ok {
			var status string
			if err := json.Unmarshal(rawStatus, &status); err == nil {
				if runningStatuses[strings.ToLower(status)] {
					return Verdict{Reason: "status " + status}
				}
			}
		}
	}

	payload := make(json.RawMessage, len(trimmed))
	copy(payload, trimmed)
	return Verdict{Done: true, Payload: payload}
}
