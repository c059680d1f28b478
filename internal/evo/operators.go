package evo

import (
	"math"
	"math/rand"

	"github.com/evotsp/evotsp/internal/tsp"
)

// twoOptEpsilon guards 2-opt edge comparisons against float noise; a swap is
// only taken when it shortens the tour by more than this.
const twoOptEpsilon = 1e-9

// Operator enumerates the genetic operators the optimizer can apply.
type Operator int

const (
	OpCrossover Operator = iota
	OpSwap
	OpInversion
	OpTwoOpt

	numOperators = 4
)

// Operators lists every operator in selector index order.
var Operators = [numOperators]Operator{OpCrossover, OpSwap, OpInversion, OpTwoOpt}

func (op Operator) String() string {
	switch op {
	case OpCrossover:
		return "crossover"
	case OpSwap:
		return "swap"
	case OpInversion:
		return "inversion"
	case OpTwoOpt:
		return "two_opt"
	default:
		return "unknown"
	}
}

// Crossover produces a child from two parents using ordered crossover (OX1):
// a random segment of parent a is copied verbatim, and the remaining
// positions are filled with the unused cities of parent b, in b's order. The
// scan into b resumes after the last consumed city rather than restarting,
// which is safe because both parents are permutations of the same city set.
// The child's fitness is evaluated fresh; neither parent is modified. Routes
// shorter than two cities have no cut points and come back as a clone of a.
func Crossover(rng *rand.Rand, a, b *Individual, oracle tsp.Oracle) *Individual {
	if len(a.Route) < 2 {
		return a.Clone()
	}
	c1, c2 := twoDistinct(rng, len(a.Route))
	return crossoverAt(a, b, c1, c2, oracle)
}

// crossoverAt is OX1 with explicit cut positions c1 <= c2.
func crossoverAt(a, b *Individual, c1, c2 int, oracle tsp.Oracle) *Individual {
	n := len(a.Route)
	child := &Individual{
		Route: make([]int, n),
		tabu:  newTabuMemory(),
	}

	placed := make(map[int]bool, c2-c1+1)
	for i := c1; i <= c2; i++ {
		child.Route[i] = a.Route[i]
		placed[a.Route[i]] = true
	}

	bIdx := 0
	for i := 0; i < n; i++ {
		if i >= c1 && i <= c2 {
			continue
		}
		for placed[b.Route[bIdx]] {
			bIdx++
		}
		child.Route[i] = b.Route[bIdx]
		bIdx++
	}

	child.Evaluate(oracle)
	return child
}

// MutateSwap applies up to k = max(1, round(n*0.005)) position swaps drawn
// from 2k distinct positions paired consecutively. A pair is skipped when the
// positions are adjacent (index distance <= 1) or when the pair is still in
// the tabu memory; applied pairs are recorded there. Fitness is fully
// recomputed when at least one swap was applied. Returns whether any swap
// was applied.
func (ind *Individual) MutateSwap(rng *rand.Rand, oracle tsp.Oracle) bool {
	n := len(ind.Route)
	if n < 2 {
		return false
	}
	k := int(math.Round(float64(n) * 0.005))
	if k < 1 {
		k = 1
	}
	if 2*k > n {
		k = n / 2
	}

	positions := rng.Perm(n)[:2*k]
	applied := false
	for i := 0; i < 2*k; i += 2 {
		p, q := positions[i], positions[i+1]
		dist := p - q
		if dist < 0 {
			dist = -dist
		}
		if dist <= 1 {
			continue
		}
		pair := makeSwapPair(p, q)
		if ind.tabu.contains(pair) {
			continue
		}
		ind.Route[p], ind.Route[q] = ind.Route[q], ind.Route[p]
		ind.tabu.add(pair)
		applied = true
	}

	if applied {
		ind.Evaluate(oracle)
	}
	return applied
}

// MutateInversion reverses a random inclusive subrange with the given
// probability, recomputes fitness, and runs one 2-opt cleanup pass over the
// result. Returns whether the inversion fired; routes shorter than two
// cities have no subrange to reverse and are left untouched.
func (ind *Individual) MutateInversion(rng *rand.Rand, rate float64, oracle tsp.Oracle) bool {
	if len(ind.Route) < 2 {
		return false
	}
	if rng.Float64() >= rate {
		return false
	}
	i, j := twoDistinct(rng, len(ind.Route))
	reverse(ind.Route, i, j)
	ind.Evaluate(oracle)
	ind.TwoOpt(oracle)
	return true
}

// TwoOpt performs one local-search sweep over all non-adjacent edge pairs.
// Whenever replacing edges (i,i+1) and (j,j+1) with (i,j) and (i+1,j+1)
// shortens the tour by more than twoOptEpsilon, the sub-path between them is
// reversed immediately, fitness is adjusted by the exact delta, and the sweep
// continues. Returns whether any improvement was made.
func (ind *Individual) TwoOpt(oracle tsp.Oracle) bool {
	route := ind.Route
	n := len(route)
	if n < 4 {
		return false
	}

	improved := false
	for i := 0; i < n-1; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				// These edges share the wrap vertex; not a 2-opt move.
				continue
			}
			a, b := route[i], route[i+1]
			c, d := route[j], route[(j+1)%n]
			delta := oracle.Distance(a, c) + oracle.Distance(b, d) -
				oracle.Distance(a, b) - oracle.Distance(c, d)
			if delta < -twoOptEpsilon {
				reverse(route, i+1, j)
				ind.Fitness += delta
				improved = true
			}
		}
	}
	return improved
}

// twoDistinct returns two distinct indices in [0,n), sorted ascending.
func twoDistinct(rng *rand.Rand, n int) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	if i > j {
		i, j = j, i
	}
	return i, j
}

// reverse flips the inclusive subrange [i,j] of route in place.
func reverse(route []int, i, j int) {
	for i < j {
		route[i], route[j] = route[j], route[i]
		i, j = i+1, j-1
	}
}
