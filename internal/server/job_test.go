package server

import (
	"testing"

	"github.com/evotsp/evotsp/internal/config"
)

func TestJobManagerLifecycle(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(JobConfig{InstancePath: "x.txt", Search: config.Default()})
	if job.ID == "" {
		t.Fatal("job has no ID")
	}
	if job.State != StatePending {
		t.Errorf("new job state = %s, want %s", job.State, StatePending)
	}

	got, exists := jm.GetJob(job.ID)
	if !exists {
		t.Fatal("job not found after creation")
	}
	if got.Config.InstancePath != "x.txt" {
		t.Errorf("InstancePath = %q, want x.txt", got.Config.InstancePath)
	}

	if err := jm.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
		j.BestFitness = 42
	}); err != nil {
		t.Fatalf("UpdateJob failed: %v", err)
	}
	got, _ = jm.GetJob(job.ID)
	if got.State != StateRunning || got.BestFitness != 42 {
		t.Errorf("update not applied: %+v", got)
	}

	if err := jm.UpdateJob("missing", func(j *Job) {}); err == nil {
		t.Error("UpdateJob accepted an unknown job ID")
	}

	if jobs := jm.ListJobs(); len(jobs) != 1 {
		t.Errorf("ListJobs returned %d jobs, want 1", len(jobs))
	}
}

func TestJobManagerHistory(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{InstancePath: "x.txt", Search: config.Default()})

	jm.AppendHistory(job.ID, HistoryPoint{Generation: 0, BestFitness: 10})
	jm.AppendHistory(job.ID, HistoryPoint{Generation: 1, BestFitness: 8})

	history := jm.History(job.ID)
	if len(history) != 2 {
		t.Fatalf("history has %d points, want 2", len(history))
	}
	if history[1].BestFitness != 8 {
		t.Errorf("history[1] = %+v", history[1])
	}

	// The returned slice is a copy.
	history[0].BestFitness = -1
	if jm.History(job.ID)[0].BestFitness != 10 {
		t.Error("History returned shared storage")
	}
}

func TestBroadcasterDeliversEvents(t *testing.T) {
	eb := NewEventBroadcaster()

	ch := eb.Subscribe("job-1")
	eb.Broadcast(ProgressEvent{JobID: "job-1", Generation: 3, BestFitness: 7})

	select {
	case event := <-ch:
		if event.Generation != 3 || event.BestFitness != 7 {
			t.Errorf("received %+v", event)
		}
	default:
		t.Fatal("no event delivered")
	}

	eb.Unsubscribe("job-1", ch)
	if _, open := <-ch; open {
		t.Error("channel not closed after unsubscribe")
	}
}

func TestBroadcasterReplaysLastEvent(t *testing.T) {
	eb := NewEventBroadcaster()

	eb.Broadcast(ProgressEvent{JobID: "job-2", Generation: 9, BestFitness: 5})

	ch := eb.Subscribe("job-2")
	select {
	case event := <-ch:
		if event.Generation != 9 {
			t.Errorf("replayed event = %+v", event)
		}
	default:
		t.Fatal("last event not replayed to new subscriber")
	}
}

// CloseStreams must close every subscriber channel, drop cached events, and
// leave a later Unsubscribe from the same handler harmless.
func TestJobManagerCloseStreams(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{InstancePath: "cities.txt"})

	ch := jm.broadcaster.Subscribe(job.ID)
	jm.broadcaster.Broadcast(ProgressEvent{JobID: job.ID, Generation: 1, BestFitness: 3})
	<-ch

	jm.CloseStreams()

	if _, open := <-ch; open {
		t.Error("channel not closed by CloseStreams")
	}

	// A fresh subscriber after cleanup must see no cached event, and the old
	// handler's deferred Unsubscribe must neither panic nor touch it.
	late := jm.broadcaster.Subscribe(job.ID)
	select {
	case event := <-late:
		t.Errorf("cached event %+v survived cleanup", event)
	default:
	}

	jm.broadcaster.Unsubscribe(job.ID, ch)

	jm.broadcaster.Broadcast(ProgressEvent{JobID: job.ID, Generation: 2, BestFitness: 2})
	select {
	case event := <-late:
		if event.Generation != 2 {
			t.Errorf("late subscriber received %+v", event)
		}
	default:
		t.Error("late subscriber missed broadcast after stale unsubscribe")
	}
}
