package chroma

import (
	"math"

	"github.com/clipchord/clipchord/dsp/spectral"
)

// CQTExtractor computes a chromagram over logarithmically spaced bands.
//
// DIFFERENCE FROM Extractor:
//   - Extractor folds linear FFT bins directly into pitch classes, so low
//     notes share few bins and high notes share many.
//   - CQTExtractor aggregates each semitone band with a bandwidth
//     proportional to its center frequency (constant Q), which matches
//     musical note spacing and separates low-frequency semitones better.
//
// Band centers follow f_k = minFreq * 2^(k/12).
type CQTExtractor struct {
	tuningFreq    float64
	minFreq       float64
	maxFreq       float64
	qFactor       float64
	centers       []float64
	centerClasses []int
}

// NewCQTExtractor creates a constant-Q chroma extractor with the given
// A4 tuning over a standard musical range.
func NewCQTExtractor(tuningFreq float64) *CQTExtractor {
	e := &CQTExtractor{
		tuningFreq: tuningFreq,
		minFreq:    65.4,   // C2
		maxFreq:    2093.0, // C7, five octaves
		qFactor:    17.0,   // ~semitone bandwidth: f / (2^(1/12)-1) ≈ 17f
	}
	e.generateBands()
	return e
}

// NewCQTExtractorDefault creates a constant-Q chroma extractor with A4 = 440 Hz.
func NewCQTExtractorDefault() *CQTExtractor {
	return NewCQTExtractor(440.0)
}

func (e *CQTExtractor) generateBands() {
	for k := 0; ; k++ {
		center := e.minFreq * math.Pow(2.0, float64(k)/float64(chromaBins))
		if center > e.maxFreq {
			break
		}
		e.centers = append(e.centers, center)
		e.centerClasses = append(e.centerClasses, pitchClass(center, e.tuningFreq))
	}
}

// FromFrames converts a magnitude spectrogram to one 12-bin chroma vector
// per frame by summing band energy around each semitone center and folding
// bands into pitch classes. Frames are normalized to unit sum.
func (e *CQTExtractor) FromFrames(frames *spectral.Frames) [][]float64 {
	if frames == nil || frames.TimeFrames == 0 {
		return [][]float64{}
	}

	// Per band, the FFT bin range covering center ± bandwidth/2.
	type binRange struct{ lo, hi int }
	ranges := make([]binRange, len(e.centers))
	for k, center := range e.centers {
		bandwidth := center / e.qFactor
		lo := int(math.Floor((center - bandwidth/2) / frames.FreqResolution))
		hi := int(math.Ceil((center + bandwidth/2) / frames.FreqResolution))
		ranges[k] = binRange{lo: max(lo, 0), hi: min(hi, frames.FreqBins-1)}
	}

	chromagram := make([][]float64, frames.TimeFrames)
	for t := 0; t < frames.TimeFrames; t++ {
		chromagram[t] = make([]float64, chromaBins)

		for k := range e.centers {
			energy := 0.0
			for f := ranges[k].lo; f <= ranges[k].hi; f++ {
				mag := frames.Magnitude[t][f]
				energy += mag * mag
			}
			chromagram[t][e.centerClasses[k]] += energy
		}

		normalizeFrame(chromagram[t])
	}

	return chromagram
}
