package evo

import "gonum.org/v1/gonum/stat"

// GenerationStats summarizes the fitness distribution of a sorted population.
type GenerationStats struct {
	Best  float64
	Worst float64
	Mean  float64
	Std   float64
}

// populationStats computes summary statistics over a population sorted
// ascending by fitness.
func populationStats(pop []*Individual) GenerationStats {
	fitness := make([]float64, len(pop))
	for i, ind := range pop {
		fitness[i] = ind.Fitness
	}
	s := GenerationStats{
		Best:  fitness[0],
		Worst: fitness[len(fitness)-1],
		Mean:  stat.Mean(fitness, nil),
	}
	if len(fitness) > 1 {
		s.Std = stat.StdDev(fitness, nil)
	}
	return s
}
