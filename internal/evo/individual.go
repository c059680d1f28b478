package evo

import (
	"math/rand"

	"github.com/evotsp/evotsp/internal/tsp"
)

// tabuCapacity bounds the short-term memory of recently applied swap
// position pairs. Oldest entries are evicted first.
const tabuCapacity = 1000

// swapPair is an unordered pair of route positions, stored with lo < hi.
type swapPair struct {
	lo, hi int
}

func makeSwapPair(a, b int) swapPair {
	if a > b {
		a, b = b, a
	}
	return swapPair{lo: a, hi: b}
}

// tabuMemory is a bounded FIFO set of swap position pairs. It is only
// consulted by swap mutation to avoid immediately re-applying a move.
type tabuMemory struct {
	order []swapPair
	set   map[swapPair]struct{}
}

func newTabuMemory() *tabuMemory {
	return &tabuMemory{set: make(map[swapPair]struct{})}
}

func (t *tabuMemory) contains(p swapPair) bool {
	_, ok := t.set[p]
	return ok
}

func (t *tabuMemory) add(p swapPair) {
	if t.contains(p) {
		return
	}
	t.order = append(t.order, p)
	t.set[p] = struct{}{}
	if len(t.order) > tabuCapacity {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.set, oldest)
	}
}

func (t *tabuMemory) clone() *tabuMemory {
	c := &tabuMemory{
		order: append([]swapPair(nil), t.order...),
		set:   make(map[swapPair]struct{}, len(t.set)),
	}
	for p := range t.set {
		c.set[p] = struct{}{}
	}
	return c
}

// Individual is one candidate solution: a route (permutation of city
// identifiers 1..n) with its cached closed-tour length. Lower fitness is
// better. Operators never mutate a shared Individual; they work on copies
// obtained through Clone.
type Individual struct {
	Route   []int
	Fitness float64
	tabu    *tabuMemory
}

// NewRandomIndividual creates an individual with a uniformly random
// permutation of 1..n and a freshly evaluated fitness.
func NewRandomIndividual(rng *rand.Rand, n int, oracle tsp.Oracle) *Individual {
	route := make([]int, n)
	for i := range route {
		route[i] = i + 1
	}
	rng.Shuffle(n, func(i, j int) {
		route[i], route[j] = route[j], route[i]
	})

	ind := &Individual{Route: route, tabu: newTabuMemory()}
	ind.Fitness = TourLength(route, oracle)
	return ind
}

// TourLength computes the closed tour length of a route: the sum of all
// consecutive-city distances plus the edge from the last city back to the
// first.
func TourLength(route []int, oracle tsp.Oracle) float64 {
	if len(route) < 2 {
		return 0
	}
	var total float64
	for i := 0; i < len(route)-1; i++ {
		total += oracle.Distance(route[i], route[i+1])
	}
	total += oracle.Distance(route[len(route)-1], route[0])
	return total
}

// Evaluate recomputes and caches the fitness from scratch.
func (ind *Individual) Evaluate(oracle tsp.Oracle) {
	ind.Fitness = TourLength(ind.Route, oracle)
}

// Clone returns a deep copy sharing no state with the receiver.
func (ind *Individual) Clone() *Individual {
	c := &Individual{
		Route:   append([]int(nil), ind.Route...),
		Fitness: ind.Fitness,
	}
	if ind.tabu != nil {
		c.tabu = ind.tabu.clone()
	} else {
		c.tabu = newTabuMemory()
	}
	return c
}
