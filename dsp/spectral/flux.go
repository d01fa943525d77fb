package spectral

// OnsetEnvelope derives a 1-D onset-strength curve from a magnitude
// spectrogram using positive spectral flux: per frame transition, the sum of
// positive first-order magnitude differences across frequency bins.
type OnsetEnvelope struct{}

// NewOnsetEnvelope creates a new onset envelope extractor.
func NewOnsetEnvelope() *OnsetEnvelope {
	return &OnsetEnvelope{}
}

// Compute returns one non-negative value per frame transition
// (length len(magnitude)-1). Fewer than 2 frames yields an empty envelope;
// callers treat that as "cannot estimate", not an error.
func (oe *OnsetEnvelope) Compute(magnitude [][]float64) []float64 {
	if len(magnitude) < 2 {
		return []float64{}
	}

	envelope := make([]float64, len(magnitude)-1)

	for t := 1; t < len(magnitude); t++ {
		sum := 0.0
		for f := range magnitude[t] {
			diff := magnitude[t][f] - magnitude[t-1][f]
			if diff > 0 { // Only energy increases signal onsets
				sum += diff
			}
		}
		envelope[t-1] = sum
	}

	return envelope
}
