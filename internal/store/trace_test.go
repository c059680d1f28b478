package store

import (
	"errors"
	"testing"
	"time"
)

func TestTraceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	tw, err := NewTraceWriter(dir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}

	want := []TraceEntry{
		{Generation: 0, BestFitness: 12.5, Timestamp: time.Now()},
		{Generation: 1, BestFitness: 11.0, Timestamp: time.Now()},
		{Generation: 2, BestFitness: 11.0, Timestamp: time.Now()},
	}
	for _, e := range want {
		if err := tw.Write(e); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := ReadTrace(dir, "run-1")
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Generation != want[i].Generation || got[i].BestFitness != want[i].BestFitness {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTraceFlushMakesEntriesVisible(t *testing.T) {
	dir := t.TempDir()

	tw, err := NewTraceWriter(dir, "run-2")
	if err != nil {
		t.Fatal(err)
	}
	defer tw.Close()

	if err := tw.Write(TraceEntry{Generation: 0, BestFitness: 9.9, Timestamp: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := tw.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	got, err := ReadTrace(dir, "run-2")
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("read %d entries after flush, want 1", len(got))
	}
}

func TestReadTraceMissing(t *testing.T) {
	_, err := ReadTrace(t.TempDir(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadTrace error = %v, want ErrNotFound", err)
	}
}
