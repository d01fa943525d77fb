// Package tempo estimates beats per minute from an onset-strength envelope.
package tempo

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBPM is the fallback tempo when estimation cannot produce a
// meaningful value.
const DefaultBPM = 120.0

// tieTolerance is the relative margin within which two autocorrelation
// peaks count as equal; the smaller lag (faster tempo) then wins.
const tieTolerance = 1e-6

// Estimate carries an estimated tempo or the fixed default. Fallback is true
// when the envelope held no usable periodicity and DefaultBPM was substituted.
type Estimate struct {
	BPM      float64
	Fallback bool
}

// Estimator finds the dominant periodicity in an onset envelope within a
// plausible BPM search range.
type Estimator struct {
	minBPM float64
	maxBPM float64
}

// NewEstimator creates a tempo estimator with the given search range.
func NewEstimator(minBPM, maxBPM float64) *Estimator {
	return &Estimator{minBPM: minBPM, maxBPM: maxBPM}
}

// NewEstimatorDefault creates a tempo estimator covering 40-240 BPM.
func NewEstimatorDefault() *Estimator {
	return NewEstimator(40.0, 240.0)
}

// Estimate converts the dominant autocorrelation lag of the envelope to BPM.
// Any degenerate input (short envelope, empty search range, flat signal)
// resolves to DefaultBPM with Fallback set; this never fails.
func (e *Estimator) Estimate(envelope []float64, sampleRate, hopSize int) Estimate {
	fallback := Estimate{BPM: DefaultBPM, Fallback: true}

	if len(envelope) < 2 || sampleRate <= 0 || hopSize <= 0 {
		return fallback
	}

	if e.minBPM <= 0 || e.maxBPM <= e.minBPM {
		return fallback
	}

	framesPerSecond := float64(sampleRate) / float64(hopSize)

	// Lags bounding the plausible beat periods. A fast tempo is a short
	// period, so maxBPM gives the minimum lag.
	minLag := int(math.Floor(60.0 / e.maxBPM * framesPerSecond))
	maxLag := int(math.Ceil(60.0 / e.minBPM * framesPerSecond))

	minLag = max(minLag, 1)
	maxLag = min(maxLag, len(envelope)-1)

	if minLag > maxLag {
		return fallback
	}

	// Mean-removed autocorrelation so a constant envelope carries no
	// periodicity signal.
	mean := stat.Mean(envelope, nil)
	centered := make([]float64, len(envelope))
	for i, v := range envelope {
		centered[i] = v - mean
	}

	corr := make([]float64, maxLag-minLag+1)
	for lag := minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i < len(centered)-lag; i++ {
			sum += centered[i] * centered[i+lag]
		}
		corr[lag-minLag] = sum / float64(len(centered)-lag)
	}

	peak := floats.Max(corr)
	if peak <= 0 || math.IsNaN(peak) {
		return fallback
	}

	// Scan from the smallest lag so ties within tolerance of the peak
	// resolve to the faster tempo, deterministically.
	bestLag := 0
	for lag := minLag; lag <= maxLag; lag++ {
		if corr[lag-minLag] >= peak*(1.0-tieTolerance) {
			bestLag = lag
			break
		}
	}

	if bestLag == 0 {
		return fallback
	}

	bpm := 60.0 * framesPerSecond / float64(bestLag)
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return fallback
	}

	return Estimate{BPM: bpm}
}
