package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evotsp/evotsp/internal/config"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
)

// JobConfig is the request payload for starting an optimization job.
type JobConfig struct {
	// InstancePath is the problem instance file to solve
	InstancePath string `json:"instancePath"`

	// Search holds the evolutionary search parameters
	Search config.Config `json:"search"`
}

// Job represents one optimization run managed by the server.
type Job struct {
	ID             string     `json:"id"`
	State          JobState   `json:"state"`
	Config         JobConfig  `json:"config"`
	Cities         int        `json:"cities"`
	Generation     int        `json:"generation"`
	BestTour       []int      `json:"bestTour,omitempty"`
	BestFitness    float64    `json:"bestFitness"`
	InitialFitness float64    `json:"initialFitness"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	history     map[string][]HistoryPoint
	broadcaster *EventBroadcaster
}

// HistoryPoint is one convergence-trace sample held in memory for the
// history endpoint.
type HistoryPoint struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"bestFitness"`
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		history:     make(map[string][]HistoryPoint),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob creates a new job with the given configuration
func (jm *JobManager) CreateJob(cfg JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    cfg,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	return job
}

// GetJob retrieves a snapshot of a job by ID.
func (jm *JobManager) GetJob(id string) (Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return Job{}, false
	}
	return *job, true
}

// ListJobs returns snapshots of all jobs.
func (jm *JobManager) ListJobs() []Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, *job)
	}
	return jobs
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// AppendHistory records one convergence sample for a job.
func (jm *JobManager) AppendHistory(id string, point HistoryPoint) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.history[id] = append(jm.history[id], point)
}

// History returns a copy of a job's convergence samples so far.
func (jm *JobManager) History(id string) []HistoryPoint {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	return append([]HistoryPoint(nil), jm.history[id]...)
}

// CloseStreams closes every job's SSE channels and drops the cached last
// events, unblocking any connected event handlers. Called on server shutdown.
func (jm *JobManager) CloseStreams() {
	jm.mu.RLock()
	ids := make([]string, 0, len(jm.jobs))
	for id := range jm.jobs {
		ids = append(ids, id)
	}
	jm.mu.RUnlock()

	for _, id := range ids {
		jm.broadcaster.CleanupJob(id)
	}
}
