package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/harvest/internal/collector"
	"github.com/pdiddy/harvest/internal/jobfile"
	"github.com/pdiddy/harvest/internal/payload"
	"github.com/pdiddy/harvest/pkg/types"
)

const (
	defaultTimeoutMinutes = 30
	defaultInterval       = 10 * time.Second
	defaultResultFile     = "amazon_results.json"

	// sampleCount is how many item titles the completion summary shows.
	sampleCount = 3
)

var pollCmd = &cobra.Command{
	Use:   "poll [job-id]",
	Short: "Poll the collector until results are ready and save them",
	Long: `Poll checks the collector's result endpoint once per interval until the job
produces data or the deadline passes. The job identifier comes from the
positional argument or, when omitted, from the job file written by trigger.
The final payload is saved as pretty-printed JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPoll,
}

func init() {
	addCollectorFlags(pollCmd)
	addPollFlags(pollCmd)
	rootCmd.AddCommand(pollCmd)
}

func addPollFlags(cmd *cobra.Command) {
	cmd.Flags().Int("timeout-minutes", defaultTimeoutMinutes, "overall polling deadline in minutes")
	cmd.Flags().Duration("interval", defaultInterval, "delay between poll attempts")
	cmd.Flags().String("out", defaultResultFile, "destination file for the final payload")
}

func runPoll(cmd *cobra.Command, args []string) error {
	jobFile, _ := cmd.Flags().GetString("job-file")

	// Resolve the job identifier before anything else: a missing or empty
	// job file must fail without a single network request.
	var jobID string
	if len(args) > 0 {
		jobID = args[0]
	} else {
		var err error
		jobID, err = jobfile.Read(jobFile)
		if err != nil {
			return err
		}
	}

	client, err := collectorClient(cmd)
	if err != nil {
		return err
	}

	minutes, _ := cmd.Flags().GetInt("timeout-minutes")
	interval, _ := cmd.Flags().GetDuration("interval")
	pollCfg := types.PollConfig{
		Timeout:  time.Duration(minutes) * time.Minute,
		Interval: interval,
	}
	outPath, _ := cmd.Flags().GetString("out")
	historyDB, _ := cmd.Flags().GetString("history-db")

	if meta := jobfile.ReadMeta(jobFile); meta != nil && meta.JobID == jobID {
		fmt.Printf("Polling job %s (keyword %q, triggered %s)\n",
			jobID, meta.Keyword, meta.TriggeredAt.Format(time.RFC3339))
	} else {
		fmt.Printf("Polling job %s\n", jobID)
	}
	fmt.Printf("Deadline %dm, interval %s\n", minutes, interval)

	out, err := client.Poll(cmd.Context(), jobID, pollCfg, os.Stdout)
	if errors.Is(err, collector.ErrPollTimeout) {
		recordOutcome(historyDB, jobID, out.Attempts, 0, true)
		fmt.Fprintf(os.Stderr, "Timed out after %s (%d attempt(s)). Check that:\n",
			out.Elapsed.Round(time.Second), out.Attempts)
		fmt.Fprintln(os.Stderr, "  - the job identifier is correct")
		fmt.Fprintln(os.Stderr, "  - the job may simply need more time")
		fmt.Fprintln(os.Stderr, "  - the API token has access to this collector")
		return err
	}
	if err != nil {
		return err
	}

	return saveResult(outPath, historyDB, jobID, out)
}

// saveResult persists the final payload and prints the completion summary:
// item count, file size, and a few sample titles.
func saveResult(outPath, historyDB, jobID string, out collector.PollOutput) error {
	size, err := payload.Save(outPath, out.Payload)
	if err != nil {
		return err
	}
	count := payload.Count(out.Payload)
	recordOutcome(historyDB, jobID, out.Attempts, count, false)

	fmt.Printf("Job complete after %d attempt(s) in %s\n", out.Attempts, out.Elapsed.Round(time.Second))
	fmt.Printf("Saved %s (%d bytes, %d item(s))\n", outPath, size, count)
	for i, title := range payload.SampleTitles(out.Payload, sampleCount) {
		fmt.Printf("  %d. %s\n", i+1, title)
	}
	return nil
}
