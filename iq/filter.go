package iq

import "math"

// NewLowPassFilterTaps creates the coefficients (taps) for a FIR low-pass filter.
// A Blackman window is used for good performance.
func NewLowPassFilterTaps(numTaps int, bandwidth, sampleRate float64) []float64 {
	taps := make([]float64, numTaps)
	cutoffFreq := bandwidth / 2.0
	normalizedCutoff := cutoffFreq / sampleRate

	M := float64(numTaps - 1)
	var sum float64
	for i := 0; i < numTaps; i++ {
		n := float64(i)
		window := 0.42 - 0.5*math.Cos(2*math.Pi*n/M) + 0.08*math.Cos(4*math.Pi*n/M)

		var sinc float64
		if float64(i) == M/2 {
			sinc = 2 * math.Pi * normalizedCutoff
		} else {
			sinc = math.Sin(2*math.Pi*normalizedCutoff*(n-M/2)) / (n - M/2)
		}

		taps[i] = sinc * window
		sum += taps[i]
	}

	// unity gain at DC
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// Filter convolves samples with taps, centred so the output lines up with
// the input. Samples beyond either end are taken to be the nearest edge
// sample, which keeps a constant signal constant.
func Filter(samples, taps []float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	half := len(taps) / 2
	last := len(samples) - 1
	for i := range samples {
		var acc float64
		for k, t := range taps {
			j := min(max(i+k-half, 0), last)
			acc += t * samples[j]
		}
		out[i] = acc
	}
	return out
}
