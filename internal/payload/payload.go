// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package payload inspects and persists final collector payloads. The
// vendor does not document a stable result shape, so item counting and
// title sampling probe explicit, ordered candidate-field tables evaluated
// first-match.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ListFields are the object fields probed, in order, for the item list.
var ListFields = []string{"items", "results", "data", "products"}

// TitleFields are the item fields probed, in order, for a human-readable title.
var TitleFields = []string{"title", "product_title", "name", "product_name"}

// maxTitleLen bounds sampled titles for display.
const maxTitleLen = 100

// Count derives an advisory item count from a payload: the length of a
// top-level array, or the length of the first list-valued candidate field of
// an object. An object whose data field is itself an object counts as a
// single item; otherwise the object's own key count is used. The count is
// for display only.
func Count(raw json.RawMessage) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return 0
		}
		return len(items)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return 0
	}

	for _, field := range ListFields {
		inner, ok := obj[field]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(inner, &items); err == nil {
			return len(items)
		}
		if field == "data" && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
			return 1
		}
	}

	return len(obj)
}

// SampleTitles extracts up to n display titles from the payload's item list
// for a sanity-check printout. Structural mismatches (no list field,
// non-object items, missing or non-string title fields) are skipped rather
// than reported; the result may be empty but is never nil.
func SampleTitles(raw json.RawMessage, n int) []string {
	titles := []string{}

	for _, item := range itemList(raw) {
		if len(titles) >= n {
			break
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		for _, field := range TitleFields {
			inner, ok := obj[field]
			if !ok {
				continue
			}
			var title string
			if err := json.Unmarshal(inner, &title); err != nil {
				continue
			}
			titles = append(titles, truncate(title, maxTitleLen))
			break
		}
	}

	return titles
}

// itemList returns the payload's item sequence: the payload itself when it
// is a top-level array, otherwise the first list-valued candidate field.
func itemList(raw json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		return items
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil
	}
	for _, field := range ListFields {
		inner, ok := obj[field]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(inner, &items); err == nil {
			return items
		}
	}
	return nil
}

// Save writes the payload to path as indented JSON with HTML escaping
// disabled, so non-ASCII text and characters like & survive verbatim. The
// payload is written to a temp file in the destination directory and
// renamed, so a partial result file is never observable. Returns the number
// of bytes written.
func Save(path string, raw json.RawMessage) (int64, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("parsing payload: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return 0, fmt.Errorf("encoding payload: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".harvest-result-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp result file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("writing result file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("closing result file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("renaming result file: %w", err)
	}

	return int64(buf.Len()), nil
}

// truncate shortens s to max bytes for display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
