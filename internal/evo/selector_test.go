package evo

import "testing"

// Every operator must be selected at least once within the first
// numOperators calls: untried operators score +Inf.
func TestSelectorColdStartCoversAllOperators(t *testing.T) {
	s := NewUCB1Selector(2.0)

	seen := make(map[Operator]bool)
	for i := 0; i < numOperators; i++ {
		op := s.Select()
		seen[op] = true
		s.Update(op, 1.0)
	}

	for _, op := range Operators {
		if !seen[op] {
			t.Errorf("operator %s not tried during cold start", op)
		}
	}
}

// Ties among untried operators resolve to the lowest index.
func TestSelectorColdStartOrder(t *testing.T) {
	s := NewUCB1Selector(2.0)

	for _, want := range Operators {
		op := s.Select()
		if op != want {
			t.Fatalf("cold-start select = %s, want %s", op, want)
		}
		s.Update(op, 0)
	}
}

// Select advances only the global counter; the per-operator pull count moves
// in Update.
func TestSelectDoesNotCountAsPull(t *testing.T) {
	s := NewUCB1Selector(2.0)

	op := s.Select()
	if got := s.Pulls(op); got != 0 {
		t.Errorf("Pulls(%s) = %d after Select, want 0", op, got)
	}
	s.Update(op, 1.0)
	if got := s.Pulls(op); got != 1 {
		t.Errorf("Pulls(%s) = %d after Update, want 1", op, got)
	}
}

func TestSelectorExploitsBestMean(t *testing.T) {
	s := NewUCB1Selector(2.0)

	// Cold start with a clearly superior first operator.
	rewards := []float64{50, 1, 1, 1}
	for i := 0; i < numOperators; i++ {
		op := s.Select()
		s.Update(op, rewards[op])
	}

	if op := s.Select(); op != OpCrossover {
		t.Errorf("Select = %s, want %s with a dominant mean reward", op, OpCrossover)
	}
}

// Negative rewards count as pulls but contribute zero reward.
func TestSelectorClampsNegativeReward(t *testing.T) {
	s := NewUCB1Selector(2.0)

	s.Update(OpSwap, -3.5)
	if got := s.Pulls(OpSwap); got != 1 {
		t.Errorf("Pulls = %d, want 1", got)
	}
	if got := s.Reward(OpSwap); got != 0 {
		t.Errorf("Reward = %v, want 0", got)
	}

	s.Update(OpSwap, 2.0)
	if got := s.Reward(OpSwap); got != 2.0 {
		t.Errorf("Reward = %v, want 2.0", got)
	}
}

// An out-of-range operator is a soft failure: logged, state unchanged.
func TestSelectorUpdateUnknownOperator(t *testing.T) {
	s := NewUCB1Selector(2.0)

	s.Update(Operator(99), 10)
	s.Update(Operator(-1), 10)

	for _, op := range Operators {
		if got := s.Pulls(op); got != 0 {
			t.Errorf("Pulls(%s) = %d after unknown updates, want 0", op, got)
		}
		if got := s.Reward(op); got != 0 {
			t.Errorf("Reward(%s) = %v after unknown updates, want 0", op, got)
		}
	}
}
