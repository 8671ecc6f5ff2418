package report

import (
	"fmt"
	"math"
	"sort"
)

// pearson computes the Pearson correlation coefficient over two equal-length
// series.
//
// Errors:
//   - ErrUndefined when fewer than 2 pairs are given.
//   - ErrUndefined when either series has zero variance.
func pearson(xs, ys []float64) (float64, error) {
	n := len(xs)
	if n != len(ys) {
		return 0, fmt.Errorf("series length mismatch: %d vs %d", n, len(ys))
	}
	if n < 2 {
		return 0, fmt.Errorf("%w: need at least 2 matched rows, have %d", ErrUndefined, n)
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, fmt.Errorf("%w: zero variance", ErrUndefined)
	}

	return cov / math.Sqrt(varX*varY), nil
}

// medianLower returns the discrete (lower-value) median: the element at rank
// ceil(n/2) in sorted order, with no interpolation. For an even count this
// is the lower of the two central values.
//
// Errors:
//   - ErrUndefined for an empty input.
func medianLower(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrUndefined)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	// rank ceil(n/2), 1-based
	return sorted[(n+1)/2-1], nil
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
