package evo

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/evotsp/evotsp/internal/tsp"
)

// Mode selects the offspring strategy.
type Mode string

const (
	// ModeFixed applies operators with fixed, configured probabilities.
	ModeFixed Mode = "fixed"
	// ModeAdaptive asks a UCB1 bandit which operator to apply next.
	ModeAdaptive Mode = "adaptive"
)

// Config holds the evolutionary search parameters.
type Config struct {
	Mode           Mode
	PopulationSize int
	EliteRatio     float64
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	TwoOptRate     float64
	Exploration    float64
}

// HistoryEntry is one convergence-trace record: the best fitness observed
// entering a generation.
type HistoryEntry struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"bestFitness"`
}

// Result holds the output of an optimization run.
type Result struct {
	Best           *Individual
	InitialFitness float64
	History        []HistoryEntry
}

// Optimizer owns the population and runs the generational loop. It is not
// safe for concurrent use; all randomness flows through the injected rng so
// runs are reproducible under a fixed seed.
type Optimizer struct {
	cfg        Config
	oracle     tsp.Oracle
	rng        *rand.Rand
	selector   *UCB1Selector
	population []*Individual
	history    []HistoryEntry

	// OnGeneration, when set, is called once per generation right after the
	// convergence history is appended.
	OnGeneration func(generation int, bestFitness float64)
}

// New creates an optimizer with a random initial population of n-city tours.
func New(cfg Config, n int, oracle tsp.Oracle, rng *rand.Rand) *Optimizer {
	o := &Optimizer{
		cfg:        cfg,
		oracle:     oracle,
		rng:        rng,
		population: make([]*Individual, cfg.PopulationSize),
	}
	if cfg.Mode == ModeAdaptive {
		o.selector = NewUCB1Selector(cfg.Exploration)
	}
	for i := range o.population {
		o.population[i] = NewRandomIndividual(rng, n, oracle)
	}
	return o
}

// Run executes the fixed generation budget and returns the best individual
// found together with the full convergence trace (one entry per generation,
// improving or not).
func (o *Optimizer) Run() *Result {
	slog.Info("Starting optimization",
		"mode", string(o.cfg.Mode),
		"population", o.cfg.PopulationSize,
		"generations", o.cfg.Generations,
	)

	o.sortPopulation()
	initial := o.population[0].Fitness

	// The population is sorted entering every iteration: once up front, then
	// after each nextGeneration below.
	for gen := 0; gen < o.cfg.Generations; gen++ {
		best := o.population[0].Fitness
		o.history = append(o.history, HistoryEntry{Generation: gen, BestFitness: best})
		if o.OnGeneration != nil {
			o.OnGeneration(gen, best)
		}
		o.logGeneration(gen)

		o.population = o.nextGeneration()
		o.sortPopulation()
	}

	best := o.population[0].Clone()

	slog.Info("Optimization complete",
		"initial_fitness", initial,
		"best_fitness", best.Fitness,
		"improvement", initial-best.Fitness,
	)

	return &Result{
		Best:           best,
		InitialFitness: initial,
		History:        o.history,
	}
}

// nextGeneration seeds the new population with deep-copied elites and fills
// the remaining slots through the active strategy. The elite count may
// legitimately round to zero for small populations; in that case no elites
// are carried and parents are drawn from the whole previous population.
func (o *Optimizer) nextGeneration() []*Individual {
	popSize := o.cfg.PopulationSize
	eliteCount := int(math.Round(float64(popSize) * o.cfg.EliteRatio))
	if eliteCount > popSize {
		eliteCount = popSize
	}

	next := make([]*Individual, 0, popSize)
	for i := 0; i < eliteCount; i++ {
		next = append(next, o.population[i].Clone())
	}

	pool := o.population[:eliteCount]
	if len(pool) < 2 {
		pool = o.population
	}

	for len(next) < popSize {
		a, b := o.samplePair(pool)
		var child *Individual
		if o.cfg.Mode == ModeAdaptive {
			child = o.adaptiveOffspring(a, b)
		} else {
			child = o.fixedOffspring(a, b)
		}
		next = append(next, child)
	}
	return next
}

// fixedOffspring implements the fixed-rate strategy: crossover with
// probability CrossoverRate followed by independent Bernoulli swap and 2-opt
// mutations, otherwise a clone of one randomly chosen parent.
func (o *Optimizer) fixedOffspring(a, b *Individual) *Individual {
	if o.rng.Float64() >= o.cfg.CrossoverRate {
		if o.rng.Intn(2) == 0 {
			return a.Clone()
		}
		return b.Clone()
	}

	child := Crossover(o.rng, a, b, o.oracle)
	if o.rng.Float64() < o.cfg.MutationRate {
		child.MutateSwap(o.rng, o.oracle)
	}
	if o.rng.Float64() < o.cfg.TwoOptRate {
		child.TwoOpt(o.oracle)
	}
	return child
}

// adaptiveOffspring asks the bandit for one operator, applies it, and feeds
// the observed improvement back. Mutations act on a copy of the first parent;
// crossover consumes both. The bandit's choice is the decision to apply, so
// inversion runs unconditionally here.
func (o *Optimizer) adaptiveOffspring(a, b *Individual) *Individual {
	op := o.selector.Select()

	var child *Individual
	var reward float64
	switch op {
	case OpCrossover:
		child = Crossover(o.rng, a, b, o.oracle)
		reward = (a.Fitness+b.Fitness)/2 - child.Fitness
	case OpSwap:
		child = a.Clone()
		child.MutateSwap(o.rng, o.oracle)
		reward = a.Fitness - child.Fitness
	case OpInversion:
		child = a.Clone()
		child.MutateInversion(o.rng, 1, o.oracle)
		reward = a.Fitness - child.Fitness
	case OpTwoOpt:
		child = a.Clone()
		child.TwoOpt(o.oracle)
		reward = a.Fitness - child.Fitness
	default:
		child = a.Clone()
	}

	o.selector.Update(op, reward)
	return child
}

// samplePair draws two distinct individuals from the pool.
func (o *Optimizer) samplePair(pool []*Individual) (*Individual, *Individual) {
	i := o.rng.Intn(len(pool))
	j := o.rng.Intn(len(pool) - 1)
	if j >= i {
		j++
	}
	return pool[i], pool[j]
}

func (o *Optimizer) sortPopulation() {
	sort.SliceStable(o.population, func(i, j int) bool {
		return o.population[i].Fitness < o.population[j].Fitness
	})
}

func (o *Optimizer) logGeneration(gen int) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	stats := populationStats(o.population)
	slog.Debug("Generation stats",
		"generation", gen,
		"best", stats.Best,
		"worst", stats.Worst,
		"mean", stats.Mean,
		"std", stats.Std,
	)
}
