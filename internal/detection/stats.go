package detection

import "math"

// sigmaFloor is the spread below which a window sample is treated as
// constant, relative to the magnitude of its mean. A constant series
// whose value is not exactly representable (0.1, 19.9, 1013.2, ...)
// still produces a standard deviation on the order of one ulp; without
// the floor that noise would be scored as if it were signal.
const sigmaFloor = 1e-9

// summarize computes the mean and population standard deviation
// (n divisor) of one window sample. The population formula matches the
// detection thresholds this service ships with; switching to the sample
// (n-1) divisor would require recalibrating them. The two-pass centered
// formula is deliberate: the single-pass sum-of-squares variant cancels
// catastrophically on near-constant samples. Callers guarantee
// len(values) >= 2.
func summarize(values []float64) (mean, stddev float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	n := float64(len(values))
	mean = sum / n

	var sumSquaredDiff float64
	for _, v := range values {
		d := v - mean
		sumSquaredDiff += d * d
	}
	stddev = math.Sqrt(sumSquaredDiff / n)

	return mean, stddev
}

// degenerate reports whether the spread is too small to support a
// meaningful z-score.
func degenerate(mean, stddev float64) bool {
	return stddev <= sigmaFloor*math.Max(1, math.Abs(mean))
}

// round2 rounds to two decimals for output values.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
