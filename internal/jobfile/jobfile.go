// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobfile reads and writes the local job handoff files: the
// single-line job identifier file the trigger and poll commands share, and
// an optional yaml metadata sidecar kept as an audit artifact.
package jobfile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// ErrNoJobID is returned when the job file is missing or holds no identifier.
var ErrNoJobID = errors.New("no job identifier")

// Meta describes a triggered job for the sidecar file.
type Meta struct {
	JobID       string    `yaml:"job_id"`
	Keyword     string    `yaml:"keyword"`
	TriggeredAt time.Time `yaml:"triggered_at"`
}

// Write stores jobID as the single line of the job file, replacing any
// previous content.
func Write(path, jobID string) error {
	if err := os.WriteFile(path, []byte(jobID+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing job file %s: %w", path, err)
	}
	return nil
}

// Read returns the job identifier from the job file, trimmed. A missing
// file or an empty identifier yields ErrNoJobID; callers must check this
// before issuing any network request.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("job file %s: %w", path, ErrNoJobID)
		}
		return "", fmt.Errorf("reading job file %s: %w", path, err)
	}

	jobID := strings.TrimSpace(string(data))
	if jobID == "" {
		return "", fmt.Errorf("job file %s is empty: %w", path, ErrNoJobID)
	}
	return jobID, nil
}

// MetaPath returns the sidecar path for a job file.
func MetaPath(jobPath string) string {
	return jobPath + ".meta.yaml"
}

// WriteMeta stores the sidecar next to the job file.
func WriteMeta(jobPath string, m Meta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding job metadata: %w", err)
	}
	if err := os.WriteFile(MetaPath(jobPath), data, 0o644); err != nil {
		return fmt.Errorf("writing job metadata: %w", err)
	}
	return nil
}

// ReadMeta returns the sidecar for a job file, or nil if it does not exist
// or cannot be parsed. The sidecar is advisory; absence is not an error.
func ReadMeta(jobPath string) *Meta {
	data, err := os.ReadFile(MetaPath(jobPath))
	if err != nil {
		return nil
	}
	var m Meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}
