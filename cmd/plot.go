package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/evotsp/evotsp/internal/store"
)

var (
	plotRunID   string
	plotDataDir string
	plotOut     string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot a run's convergence trace",
	Long:  `Renders the best-fitness-per-generation trace of a stored run as a PNG.`,
	RunE:  runPlot,
}

func init() {
	plotCmd.Flags().StringVar(&plotRunID, "run", "", "Run ID (required)")
	plotCmd.Flags().StringVar(&plotDataDir, "data", "./data", "Directory holding run results and traces")
	plotCmd.Flags().StringVar(&plotOut, "out", "convergence.png", "Output PNG path")

	plotCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	entries, err := store.ReadTrace(plotDataDir, plotRunID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("trace for run %s is empty", plotRunID)
	}

	p := plot.New()
	p.Title.Text = "Convergence " + plotRunID
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Best tour length"

	pts := make(plotter.XYs, len(entries))
	for i, e := range entries {
		pts[i].X = float64(e.Generation)
		pts[i].Y = e.BestFitness
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build line plot: %w", err)
	}
	p.Add(line)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, plotOut); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}

	fmt.Printf("Wrote %s (%d generations)\n", plotOut, len(entries))
	return nil
}
