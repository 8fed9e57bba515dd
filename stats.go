package premium

import (
	"fmt"
	"math"
	"slices"
)

// Stats holds descriptive statistics of a premium series.
//
// Std is NaN when it is undefined, that is for less than two observations.
type Stats struct {
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
	P25     float64
	P75     float64
	Std     float64
	Current float64 // last observation of the series.
}

// Summarize computes the Stats of a chronological series of premiums.
//
// Quantiles are interpolated linearly between order statistics, and the
// standard deviation is the sample one (N-1 denominator).
// It fails with ErrEmptySeries if premiums is empty.
func Summarize(premiums []float64) (Stats, error) {
	n := len(premiums)
	if n == 0 {
		return Stats{}, fmt.Errorf("cannot summarize premiums: %w", ErrEmptySeries)
	}
	sorted := slices.Clone(premiums)
	slices.Sort(sorted)

	mean := Mean(premiums)
	return Stats{
		Min:     sorted[0],
		Max:     sorted[n-1],
		Mean:    mean,
		Median:  quantile(sorted, 0.5),
		P25:     quantile(sorted, 0.25),
		P75:     quantile(sorted, 0.75),
		Std:     stdDev(premiums, mean),
		Current: premiums[n-1],
	}, nil
}

// Mean returns the arithmetic mean of values, NaN if empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// quantile interpolates the q-quantile of a sorted, non empty slice at
// position q*(n-1).
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// stdDev returns the sample standard deviation given the mean.
func stdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)-1))
}
