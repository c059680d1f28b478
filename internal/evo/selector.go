package evo

import (
	"log/slog"
	"math"
)

// UCB1Selector chooses the next operator to apply using the UCB1 bandit
// policy: the score of an operator is its mean observed reward plus an
// exploration bonus that shrinks as the operator accumulates pulls. Operators
// that were never pulled score +Inf, so every operator is tried at least once
// before scores become comparable.
type UCB1Selector struct {
	exploration float64
	pulls       [numOperators]int
	rewards     [numOperators]float64
	total       int
}

// NewUCB1Selector creates a selector with the given exploration constant.
func NewUCB1Selector(exploration float64) *UCB1Selector {
	return &UCB1Selector{exploration: exploration}
}

// Select advances the global pull counter and returns the operator with the
// highest UCB1 score. Ties resolve to the lowest operator index (stable
// argmax). The chosen operator's own pull count is only advanced later, by
// Update, once the operator has actually been applied.
func (s *UCB1Selector) Select() Operator {
	s.total++

	best := 0
	bestScore := math.Inf(-1)
	for i := 0; i < numOperators; i++ {
		var score float64
		if s.pulls[i] == 0 {
			score = math.Inf(1)
		} else {
			mean := s.rewards[i] / float64(s.pulls[i])
			score = mean + s.exploration*math.Sqrt(math.Log(float64(s.total))/float64(s.pulls[i]))
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return Operators[best]
}

// Update records the outcome of applying op. The pull count always advances;
// only non-negative rewards accumulate, so a neutral or worsening application
// contributes zero. An out-of-range operator is a soft failure: it is logged
// and the selector state is left unchanged.
func (s *UCB1Selector) Update(op Operator, reward float64) {
	if op < 0 || int(op) >= numOperators {
		slog.Warn("Ignoring reward update for unknown operator", "operator", int(op), "reward", reward)
		return
	}
	s.pulls[op]++
	if reward > 0 {
		s.rewards[op] += reward
	}
}

// Pulls returns how many times op has been applied.
func (s *UCB1Selector) Pulls(op Operator) int {
	if op < 0 || int(op) >= numOperators {
		return 0
	}
	return s.pulls[op]
}

// Reward returns op's accumulated reward sum.
func (s *UCB1Selector) Reward(op Operator) float64 {
	if op < 0 || int(op) >= numOperators {
		return 0
	}
	return s.rewards[op]
}
