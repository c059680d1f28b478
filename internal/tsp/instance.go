package tsp

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Instance holds the city coordinates of a TSP problem.
// Coordinates are 1-indexed by city identifier; slot 0 is unused.
type Instance struct {
	N int
	X []float64
	Y []float64
}

// Load reads an instance file. The first line is the city count n; every
// following non-empty line is "<cityIndex> <x> <y>". Lines may appear in any
// order. Malformed input aborts the load; coverage of all indices is the
// caller's responsibility.
func Load(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instance: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read instance header: %w", err)
		}
		return nil, fmt.Errorf("instance %s is empty", path)
	}

	header := strings.TrimSpace(scanner.Text())
	n, err := strconv.Atoi(header)
	if err != nil {
		return nil, fmt.Errorf("invalid city count %q: %w", header, err)
	}
	if n <= 0 {
		return nil, fmt.Errorf("invalid city count %d", n)
	}

	inst := &Instance{
		N: n,
		X: make([]float64, n+1),
		Y: make([]float64, n+1),
	}

	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected \"index x y\", got %q", line, text)
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid city index %q: %w", line, fields[0], err)
		}
		if idx < 1 || idx > n {
			return nil, fmt.Errorf("line %d: city index %d outside [1,%d]", line, idx, n)
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid x coordinate %q: %w", line, fields[1], err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid y coordinate %q: %w", line, fields[2], err)
		}
		inst.X[idx] = x
		inst.Y[idx] = y
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read instance: %w", err)
	}

	return inst, nil
}
