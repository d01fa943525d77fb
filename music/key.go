// Package music holds the musical vocabulary of the analyzer: pitch-class
// labels, key selection from a chroma profile, and the chord progression
// table.
package music

import (
	"gonum.org/v1/gonum/floats"
)

// PitchClasses are the 12 equal-tempered pitch-class labels, C first.
// Index order matches chroma bin order.
var PitchClasses = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// DefaultKey is the fallback key when estimation cannot produce a
// meaningful value.
const DefaultKey = "C"

// KeyEstimate carries an estimated key or the fixed default. Fallback is
// true when the chroma profile was empty or silent and DefaultKey was
// substituted.
type KeyEstimate struct {
	Key      string
	Fallback bool
}

// EstimateKey averages the chroma vectors over time and returns the label
// of the strongest pitch class. Exact ties resolve to the lowest index
// (C first), so the result is reproducible. An empty chromagram or an
// all-zero profile resolves to DefaultKey with Fallback set.
func EstimateKey(chromagram [][]float64) KeyEstimate {
	fallback := KeyEstimate{Key: DefaultKey, Fallback: true}

	if len(chromagram) == 0 {
		return fallback
	}

	profile := make([]float64, len(PitchClasses))
	for _, frame := range chromagram {
		if len(frame) != len(profile) {
			return fallback
		}
		floats.Add(profile, frame)
	}
	floats.Scale(1.0/float64(len(chromagram)), profile)

	// MaxIdx returns the first index on ties, which keeps the
	// lowest-pitch-class preference.
	best := floats.MaxIdx(profile)
	if profile[best] <= 0 {
		return fallback
	}

	return KeyEstimate{Key: PitchClasses[best]}
}
