package types

import "time"

// HTTPConfig holds shared HTTP settings for operations that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "harvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CollectorConfig holds settings for the managed-scraper collector API.
type CollectorConfig struct {
	HTTPConfig `yaml:",inline"`

	// CollectorID identifies the vendor-side collector to trigger.
	CollectorID string `json:"collector_id" yaml:"collector_id"`

	// Token is the Bearer token for the collector API. It is resolved at
	// startup from a flag, the environment, or a secrets file; it is never
	// stored in source.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// PollConfig holds settings for the result polling loop.
type PollConfig struct {
	// Timeout is the overall wall-clock deadline for polling (default 30m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Interval is the fixed delay between poll attempts (default 10s).
	// No backoff or jitter is applied.
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// StorageConfig holds the local file paths the CLI reads and writes.
type StorageConfig struct {
	// JobFile is the single-line file holding the current job identifier.
	JobFile string `json:"job_file" yaml:"job_file"`

	// ResultFile is the destination for the final JSON payload.
	ResultFile string `json:"result_file" yaml:"result_file"`

	// HistoryDB is the SQLite job-history database path.
	HistoryDB string `json:"history_db" yaml:"history_db"`
}
