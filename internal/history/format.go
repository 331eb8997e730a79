// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/harvest/pkg/types"
)

// FormatTable writes job records as a human-readable table to w.
func FormatTable(records []types.JobRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No jobs recorded.")
		return
	}

	fmt.Fprintf(w, "%-38s  %-20s  %-9s  %-8s  %-6s  %s\n",
		"Job ID", "Keyword", "Status", "Attempts", "Items", "Triggered")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range records {
		keyword := r.Keyword
		if len(keyword) > 20 {
			keyword = keyword[:17] + "..."
		}
		triggered := ""
		if !r.TriggeredAt.IsZero() {
			triggered = r.TriggeredAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-38s  %-20s  %-9s  %-8d  %-6d  %s\n",
			r.JobID, keyword, r.Status, r.Attempts, r.ItemCount, triggered)
	}

	fmt.Fprintf(w, "\n%d job(s)\n", len(records))
}

// FormatJSON writes job records as indented JSON to w.
func FormatJSON(records []types.JobRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
