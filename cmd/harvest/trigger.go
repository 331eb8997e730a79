package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/harvest/internal/jobfile"
)

const (
	defaultKeyword     = "laptop"
	defaultCollectorID = "c_mklpmnlj27vssrojsh"
	defaultHTTPTimeout = 60 * time.Second
	defaultUserAgent   = "harvest/0.1"
	defaultJobFile     = "current_job.txt"
	defaultHistoryDB   = "harvest.db"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger [keyword]",
	Short: "Submit a collector job for a search keyword",
	Long: `Trigger submits one keyword search to the vendor collector and records the
returned job identifier in the job file for a later poll. Any transport,
protocol, or parse failure is fatal; triggering is never retried.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrigger,
}

func init() {
	addCollectorFlags(triggerCmd)
	rootCmd.AddCommand(triggerCmd)
}

// addCollectorFlags registers the flags shared by every command that talks
// to the collector API.
func addCollectorFlags(cmd *cobra.Command) {
	cmd.Flags().String("token", "", "collector API Bearer token (overrides env and secrets file)")
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	cmd.Flags().String("collector", defaultCollectorID, "vendor collector ID")
	cmd.Flags().String("job-file", defaultJobFile, "file holding the current job identifier")
	cmd.Flags().String("history-db", defaultHistoryDB, "SQLite job-history database")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	keyword := defaultKeyword
	if len(args) > 0 {
		keyword = args[0]
	}

	client, err := collectorClient(cmd)
	if err != nil {
		return err
	}
	jobFile, _ := cmd.Flags().GetString("job-file")
	historyDB, _ := cmd.Flags().GetString("history-db")

	fmt.Printf("Triggering managed scraper for keyword %q\n", keyword)

	out, err := client.Trigger(cmd.Context(), keyword, os.Stderr)
	if err != nil {
		return err
	}

	if err := jobfile.Write(jobFile, out.JobID); err != nil {
		return err
	}
	meta := jobfile.Meta{JobID: out.JobID, Keyword: keyword, TriggeredAt: time.Now()}
	if err := jobfile.WriteMeta(jobFile, meta); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	recordTrigger(historyDB, out.JobID, keyword)

	fmt.Printf("Job ID: %s (saved to %s)\n", out.JobID, jobFile)
	printJSON(out.Response)
	return nil
}

// printJSON writes raw to stdout with stable indentation, falling back to
// the raw bytes if re-indenting fails.
func printJSON(raw json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(buf.String())
}
