package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/evotsp/evotsp/internal/store"
)

var (
	runsDataDir    string
	forceDeleteRun bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored optimization runs",
	Long:  `Lists, inspects and deletes run results saved under the data directory.`,
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored runs",
	RunE:  runListRuns,
}

var showRunCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the stored result of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var deleteRunCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run and all its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteRun,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(showRunCmd)
	runsCmd.AddCommand(deleteRunCmd)

	runsCmd.PersistentFlags().StringVar(&runsDataDir, "data", "./data", "Directory holding run results and traces")
	deleteRunCmd.Flags().BoolVarP(&forceDeleteRun, "force", "f", false, "Skip confirmation prompt")
}

func runListRuns(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(infos) == 0 {
		fmt.Printf("No runs found in %s.\n", runStore.BaseDir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tTIMESTAMP\tMODE\tCITIES\tGENERATIONS\tBEST")
	fmt.Fprintln(w, "------\t---------\t----\t------\t-----------\t----")

	for _, info := range infos {
		displayID := info.RunID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.6f\n",
			displayID,
			info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Mode,
			info.Cities,
			info.Generations,
			info.BestFitness,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal runs: %d\n", len(infos))
	return nil
}

func runShowRun(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}

	result, err := runStore.LoadResult(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("run %s not found in %s", args[0], runStore.BaseDir())
		}
		return fmt.Errorf("failed to load run: %w", err)
	}

	fmt.Printf("Run:         %s\n", result.RunID)
	fmt.Printf("Instance:    %s\n", result.InstancePath)
	fmt.Printf("Mode:        %s\n", result.Config.Mode)
	fmt.Printf("Cities:      %d\n", len(result.BestTour))
	fmt.Printf("Generations: %d\n", result.Generations)
	fmt.Printf("Initial:     %.6f\n", result.InitialFitness)
	fmt.Printf("Best:        %.6f\n", result.BestFitness)
	fmt.Printf("Timestamp:   %s\n", result.Timestamp.Format(time.RFC3339))
	fmt.Printf("Tour:        %v\n", result.BestTour)
	return nil
}

func runDeleteRun(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}

	if !forceDeleteRun {
		fmt.Printf("Delete run %s and all its artifacts? [y/N]: ", args[0])
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := runStore.DeleteRun(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("run %s not found in %s", args[0], runStore.BaseDir())
		}
		return fmt.Errorf("failed to delete run: %w", err)
	}

	fmt.Printf("Deleted run %s.\n", args[0])
	return nil
}
