package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/harvest/internal/history"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List recent collector jobs from the local history",
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().Int("limit", 20, "maximum number of jobs to list")
	jobsCmd.Flags().Bool("json", false, "output jobs as JSON")
	jobsCmd.Flags().String("history-db", defaultHistoryDB, "SQLite job-history database")

	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("history-db")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	st, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.Recent(limit)
	if err != nil {
		return err
	}

	if asJSON {
		return history.FormatJSON(records, os.Stdout)
	}
	history.FormatTable(records, os.Stdout)
	return nil
}
