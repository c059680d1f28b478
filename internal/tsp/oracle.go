package tsp

import (
	"math"
	"sort"
)

// Oracle answers point-pair distances. Implementations must be deterministic,
// side-effect-free and O(1) amortized: the optimizer calls Distance O(n²)
// times per 2-opt sweep.
type Oracle interface {
	Distance(i, j int) float64
}

// Build constructs a distance oracle for the instance. k == 0 yields a dense
// all-pairs matrix; k > 0 yields a sparse k-nearest-neighbor cache with exact
// fallback for uncached pairs.
func Build(inst *Instance, k int) Oracle {
	if k <= 0 {
		return NewDenseOracle(inst)
	}
	return NewNearestOracle(inst, k)
}

func euclidean(inst *Instance, i, j int) float64 {
	dx := inst.X[i] - inst.X[j]
	dy := inst.Y[i] - inst.Y[j]
	return math.Sqrt(dx*dx + dy*dy)
}

// DenseOracle precomputes all pairwise Euclidean distances.
type DenseOracle struct {
	dist [][]float64
}

// NewDenseOracle builds the full (n+1)x(n+1) distance matrix.
func NewDenseOracle(inst *Instance) *DenseOracle {
	n := inst.N
	dist := make([][]float64, n+1)
	for i := 1; i <= n; i++ {
		dist[i] = make([]float64, n+1)
	}
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			d := euclidean(inst, i, j)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return &DenseOracle{dist: dist}
}

// Distance returns the exact distance between cities i and j.
func (o *DenseOracle) Distance(i, j int) float64 {
	return o.dist[i][j]
}

// NearestOracle caches, per city, the distances to its k nearest neighbors.
// Pairs absent from the cache fall back to an exact on-the-fly computation,
// so every answer matches the dense oracle regardless of k.
type NearestOracle struct {
	inst  *Instance
	cache []map[int]float64
}

// NewNearestOracle builds the k-nearest-neighbor cache for the instance.
func NewNearestOracle(inst *Instance, k int) *NearestOracle {
	n := inst.N
	if k > n-1 {
		k = n - 1
	}
	cache := make([]map[int]float64, n+1)

	type edge struct {
		to int
		d  float64
	}
	edges := make([]edge, 0, n)
	for i := 1; i <= n; i++ {
		edges = edges[:0]
		for j := 1; j <= n; j++ {
			if j == i {
				continue
			}
			edges = append(edges, edge{to: j, d: euclidean(inst, i, j)})
		}
		sort.Slice(edges, func(a, b int) bool { return edges[a].d < edges[b].d })

		m := make(map[int]float64, k)
		for _, e := range edges[:k] {
			m[e.to] = e.d
		}
		cache[i] = m
	}
	return &NearestOracle{inst: inst, cache: cache}
}

// Distance returns the cached distance when i and j are neighbors, otherwise
// the exact Euclidean distance computed on demand.
func (o *NearestOracle) Distance(i, j int) float64 {
	if d, ok := o.cache[i][j]; ok {
		return d
	}
	return euclidean(o.inst, i, j)
}
