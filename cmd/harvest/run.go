package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/harvest/internal/collector"
	"github.com/pdiddy/harvest/internal/jobfile"
	"github.com/pdiddy/harvest/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [keyword]",
	Short: "Trigger a collector job and poll it to completion",
	Long: `Run performs trigger and poll as one process: the job identifier is handed
from trigger to poll in memory, and the job file is still written as an
audit artifact so a separate poll can pick the job up if run is interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	addCollectorFlags(runCmd)
	addPollFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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
	fmt.Printf("Job ID: %s\n", out.JobID)

	// The in-memory job ID is canonical here; the job file is an audit
	// artifact, so failing to write it only warns.
	if err := jobfile.Write(jobFile, out.JobID); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	} else {
		meta := jobfile.Meta{JobID: out.JobID, Keyword: keyword, TriggeredAt: time.Now()}
		if err := jobfile.WriteMeta(jobFile, meta); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	recordTrigger(historyDB, out.JobID, keyword)

	minutes, _ := cmd.Flags().GetInt("timeout-minutes")
	interval, _ := cmd.Flags().GetDuration("interval")
	pollCfg := types.PollConfig{
		Timeout:  time.Duration(minutes) * time.Minute,
		Interval: interval,
	}
	outPath, _ := cmd.Flags().GetString("out")

	pollOut, err := client.Poll(cmd.Context(), out.JobID, pollCfg, os.Stdout)
	if errors.Is(err, collector.ErrPollTimeout) {
		recordOutcome(historyDB, out.JobID, pollOut.Attempts, 0, true)
		fmt.Fprintf(os.Stderr, "Timed out after %s (%d attempt(s)); rerun 'harvest poll' to keep waiting\n",
			pollOut.Elapsed.Round(time.Second), pollOut.Attempts)
		return err
	}
	if err != nil {
		return err
	}

	return saveResult(outPath, historyDB, out.JobID, pollOut)
}
