package server

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/evotsp/evotsp/internal/evo"
	"github.com/evotsp/evotsp/internal/tsp"
)

// runJob executes an optimization job in the background. Progress is pushed
// through the broadcaster from the optimizer's per-generation hook.
func runJob(jm *JobManager, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	cfg := job.Config.Search
	if err := cfg.Validate(); err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "instance", job.Config.InstancePath)

	inst, err := tsp.Load(job.Config.InstancePath)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
		j.Cities = inst.N
	}); err != nil {
		return err
	}

	oracle := tsp.Build(inst, cfg.Neighbors)
	rng := rand.New(rand.NewSource(cfg.Seed))

	optimizer := evo.New(cfg.Evo(), inst.N, oracle, rng)
	optimizer.OnGeneration = func(gen int, best float64) {
		jm.AppendHistory(jobID, HistoryPoint{Generation: gen, BestFitness: best})
		jm.UpdateJob(jobID, func(j *Job) {
			j.Generation = gen
			j.BestFitness = best
		})
		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:       jobID,
			State:       StateRunning,
			Generation:  gen,
			BestFitness: best,
			Timestamp:   time.Now(),
		})
	}

	start := time.Now()
	result := optimizer.Run()
	elapsed := time.Since(start)

	endTime := time.Now()
	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.BestTour = result.Best.Route
		j.BestFitness = result.Best.Fitness
		j.InitialFitness = result.InitialFitness
		j.Generation = cfg.Generations
		j.EndTime = &endTime
	}); err != nil {
		return err
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"initial_fitness", result.InitialFitness,
		"best_fitness", result.Best.Fitness,
	)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:       jobID,
		State:       StateCompleted,
		Generation:  cfg.Generations,
		BestFitness: result.Best.Fitness,
		Timestamp:   time.Now(),
	})

	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}
