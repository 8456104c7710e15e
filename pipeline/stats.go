package pipeline

import "math"

// mean returns the arithmetic mean of values, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the sample standard deviation of values. Fewer than two
// values leave the deviation undefined, reported as 0.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// pearson returns the Pearson correlation coefficient of two equal-length
// series. Degenerate inputs score 0 instead of failing: mismatched or
// too-short series, and zero variance in either series, all report 0 so the
// answer text can always print a figure.
func pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	mx, my := mean(x), mean(y)
	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// stabilityRatio is the inverse coefficient of variation of a yearly series:
// mean divided by sample standard deviation, so steadier series score
// higher. Series with fewer than two points or no variation score 0.
func stabilityRatio(values []float64) float64 {
	sd := stdDev(values)
	if sd == 0 {
		return 0
	}
	return mean(values) / sd
}
