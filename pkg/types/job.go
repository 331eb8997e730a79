package types

import "time"

// JobStatus is the lifecycle state of a collector job as recorded locally.
type JobStatus string

const (
	// JobTriggered means the collector accepted the job and returned an identifier.
	JobTriggered JobStatus = "triggered"

	// JobComplete means polling obtained the final payload.
	JobComplete JobStatus = "complete"

	// JobTimeout means polling gave up before the job produced data.
	JobTimeout JobStatus = "timeout"
)

// JobRecord is one row of the local job history.
type JobRecord struct {
	// JobID is the opaque identifier returned by the trigger call.
	JobID string `json:"job_id"`

	// Keyword is the search keyword the job was triggered with.
	Keyword string `json:"keyword"`

	Status JobStatus `json:"status"`

	// Attempts is the number of poll requests issued, zero until polled.
	Attempts int `json:"attempts"`

	// ItemCount is the advisory item count of the final payload.
	ItemCount int `json:"item_count"`

	TriggeredAt time.Time `json:"triggered_at"`

	// CompletedAt is zero while the job is still in the triggered state.
	CompletedAt time.Time `json:"completed_at,omitempty"`
}
