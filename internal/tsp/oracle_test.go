package tsp

import (
	"math"
	"math/rand"
	"testing"
)

func randomInstance(rng *rand.Rand, n int) *Instance {
	inst := &Instance{
		N: n,
		X: make([]float64, n+1),
		Y: make([]float64, n+1),
	}
	for i := 1; i <= n; i++ {
		inst.X[i] = rng.Float64() * 100
		inst.Y[i] = rng.Float64() * 100
	}
	return inst
}

func TestDenseOracleDistance(t *testing.T) {
	inst := &Instance{N: 2, X: []float64{0, 0, 3}, Y: []float64{0, 0, 4}}
	oracle := NewDenseOracle(inst)

	if d := oracle.Distance(1, 2); math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance(1,2) = %f, want 5", d)
	}
	if d := oracle.Distance(2, 1); math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance(2,1) = %f, want 5 (symmetry)", d)
	}
}

// A sparse oracle must answer every pair identically to the dense oracle:
// cache hits return the precomputed value, misses fall back to an exact
// computation.
func TestNearestOracleMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	inst := randomInstance(rng, 30)

	dense := NewDenseOracle(inst)
	sparse := NewNearestOracle(inst, 5)

	for i := 1; i <= inst.N; i++ {
		for j := 1; j <= inst.N; j++ {
			if i == j {
				continue
			}
			if got, want := sparse.Distance(i, j), dense.Distance(i, j); got != want {
				t.Fatalf("sparse.Distance(%d,%d) = %v, dense = %v", i, j, got, want)
			}
		}
	}
}

func TestNearestOracleCachesNeighbors(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	inst := randomInstance(rng, 20)

	k := 4
	sparse := NewNearestOracle(inst, k)
	for i := 1; i <= inst.N; i++ {
		if got := len(sparse.cache[i]); got != k {
			t.Errorf("city %d has %d cached neighbors, want %d", i, got, k)
		}
	}
}

func TestNearestOracleClampsK(t *testing.T) {
	inst := &Instance{N: 3, X: []float64{0, 0, 1, 2}, Y: []float64{0, 0, 0, 0}}
	sparse := NewNearestOracle(inst, 50)

	for i := 1; i <= 3; i++ {
		if got := len(sparse.cache[i]); got != 2 {
			t.Errorf("city %d has %d cached neighbors, want 2", i, got)
		}
	}
}

func TestBuild(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	inst := randomInstance(rng, 10)

	if _, ok := Build(inst, 0).(*DenseOracle); !ok {
		t.Error("Build with k=0 should return a dense oracle")
	}
	if _, ok := Build(inst, 5).(*NearestOracle); !ok {
		t.Error("Build with k>0 should return a sparse oracle")
	}
}
