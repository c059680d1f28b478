package tsp

// IsValidTour reports whether route is a permutation of the cities 1..n.
// An empty route with n == 0 is not considered a valid tour.
func IsValidTour(route []int, n int) bool {
	if n <= 0 || len(route) != n {
		return false
	}
	seen := make([]bool, n+1)
	for _, city := range route {
		if city < 1 || city > n || seen[city] {
			return false
		}
		seen[city] = true
	}
	return true
}
