package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/evotsp/evotsp/internal/config"
	"github.com/evotsp/evotsp/internal/evo"
	"github.com/evotsp/evotsp/internal/store"
	"github.com/evotsp/evotsp/internal/tsp"
)

var (
	instancePath string
	configPath   string
	dataDir      string
	mode         string
	popSize      int
	eliteRatio   float64
	generations  int
	mutationRate float64
	crossRate    float64
	twoOptRate   float64
	exploration  float64
	neighbors    int
	seed         int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single optimization",
	Long:  `Runs the evolutionary tour search on an instance file and saves the result and convergence trace.`,
	RunE:  runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&instancePath, "instance", "", "Instance file path (required)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Optional YAML config file")
	runCmd.Flags().StringVar(&dataDir, "data", "./data", "Directory for run results and traces")
	runCmd.Flags().StringVar(&mode, "mode", "", "Strategy: fixed or adaptive")
	runCmd.Flags().IntVar(&popSize, "pop", 0, "Population size")
	runCmd.Flags().Float64Var(&eliteRatio, "elite", 0, "Elite ratio")
	runCmd.Flags().IntVar(&generations, "generations", 0, "Generation budget")
	runCmd.Flags().Float64Var(&mutationRate, "mutation-rate", 0, "Swap mutation probability (fixed mode)")
	runCmd.Flags().Float64Var(&crossRate, "crossover-rate", 0, "Crossover probability (fixed mode)")
	runCmd.Flags().Float64Var(&twoOptRate, "two-opt-rate", 0, "2-opt probability (fixed mode)")
	runCmd.Flags().Float64Var(&exploration, "exploration", 0, "UCB1 exploration constant (adaptive mode)")
	runCmd.Flags().IntVar(&neighbors, "neighbors", -1, "k for sparse distance oracle (0 = dense)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed")

	runCmd.MarkFlagRequired("instance")
	rootCmd.AddCommand(runCmd)
}

// buildConfig layers CLI flags over the optional YAML file over defaults.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return cfg, err
		}
	}

	if cmd.Flags().Changed("mode") {
		cfg.Mode = mode
	}
	if cmd.Flags().Changed("pop") {
		cfg.PopulationSize = popSize
	}
	if cmd.Flags().Changed("elite") {
		cfg.EliteRatio = eliteRatio
	}
	if cmd.Flags().Changed("generations") {
		cfg.Generations = generations
	}
	if cmd.Flags().Changed("mutation-rate") {
		cfg.MutationRate = mutationRate
	}
	if cmd.Flags().Changed("crossover-rate") {
		cfg.CrossoverRate = crossRate
	}
	if cmd.Flags().Changed("two-opt-rate") {
		cfg.TwoOptRate = twoOptRate
	}
	if cmd.Flags().Changed("exploration") {
		cfg.Exploration = exploration
	}
	if cmd.Flags().Changed("neighbors") {
		cfg.Neighbors = neighbors
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

func runOptimization(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	inst, err := tsp.Load(instancePath)
	if err != nil {
		return err
	}

	slog.Info("Loaded instance", "path", instancePath, "cities", inst.N)

	oracle := tsp.Build(inst, cfg.Neighbors)
	rng := rand.New(rand.NewSource(cfg.Seed))

	fsStore, err := store.NewFSStore(dataDir)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	trace, err := store.NewTraceWriter(dataDir, runID)
	if err != nil {
		return err
	}
	defer trace.Close()

	optimizer := evo.New(cfg.Evo(), inst.N, oracle, rng)
	optimizer.OnGeneration = func(gen int, best float64) {
		if err := trace.Write(store.TraceEntry{
			Generation:  gen,
			BestFitness: best,
			Timestamp:   time.Now(),
		}); err != nil {
			slog.Warn("Failed to write trace entry", "generation", gen, "error", err)
		}
	}

	start := time.Now()
	result := optimizer.Run()
	elapsed := time.Since(start)

	if !tsp.IsValidTour(result.Best.Route, inst.N) {
		return fmt.Errorf("optimizer produced an invalid tour for %d cities", inst.N)
	}

	runResult := &store.RunResult{
		RunID:          runID,
		InstancePath:   instancePath,
		Config:         cfg,
		BestTour:       result.Best.Route,
		BestFitness:    result.Best.Fitness,
		InitialFitness: result.InitialFitness,
		Generations:    cfg.Generations,
		Timestamp:      time.Now(),
	}
	if err := fsStore.SaveResult(runResult); err != nil {
		return err
	}
	if err := trace.Flush(); err != nil {
		return err
	}

	slog.Info("Run complete",
		"run_id", runID,
		"elapsed", elapsed,
		"initial_fitness", result.InitialFitness,
		"best_fitness", result.Best.Fitness,
		"improvement", result.InitialFitness-result.Best.Fitness,
	)

	fmt.Printf("Run %s: tour length %.4f -> %.4f over %d generations (%.1fs)\n",
		runID, result.InitialFitness, result.Best.Fitness, cfg.Generations, elapsed.Seconds())

	return nil
}
