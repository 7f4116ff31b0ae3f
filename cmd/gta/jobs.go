package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nickaggarwal/git-timeline-analysis/internal/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [job-id]",
	Short: "List analysis jobs or show one job",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJobs,
}

func runJobs(cmd *cobra.Command, args []string) error {
	store := newJobStore()
	defer store.Close()

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		job, err := store.Get(args[0])
		if err != nil {
			return err
		}
		printJob(out, job)
		return nil
	}

	list, err := store.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No jobs recorded.")
		return nil
	}
	for _, job := range list {
		printJob(out, job)
	}
	return nil
}

func printJob(out io.Writer, job jobs.Job) {
	line := fmt.Sprintf("%s  %-9s  %-20s  started %s",
		job.ID, job.Status, job.CodebaseID, job.StartedAt.Format(time.RFC3339))
	if job.Status == jobs.StatusRunning {
		line += "  (" + job.Progress + ")"
	}
	if job.Error != "" {
		line += "  error: " + job.Error
	}
	fmt.Fprintln(out, line)
}
