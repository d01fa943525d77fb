// Package chroma folds short-time magnitude spectra into 12 pitch-class
// energy bins (C, C#, D, D#, E, F, F#, G, G#, A, A#, B), octave-independent.
package chroma

import (
	"math"

	"github.com/clipchord/clipchord/dsp/spectral"
)

const chromaBins = 12

// Extractor computes a chromagram from a frame representation by mapping
// each frequency bin to its equal-tempered pitch class relative to a
// reference tuning.
type Extractor struct {
	tuningFreq float64 // A4 frequency (default 440 Hz)
	minFreq    float64
	maxFreq    float64
}

// NewExtractor creates a chroma extractor with the given A4 tuning.
func NewExtractor(tuningFreq float64) *Extractor {
	return &Extractor{
		tuningFreq: tuningFreq,
		minFreq:    80.0,   // Approximate E2
		maxFreq:    8000.0, // High enough to catch harmonics
	}
}

// NewExtractorDefault creates a chroma extractor with A4 = 440 Hz.
func NewExtractorDefault() *Extractor {
	return NewExtractor(440.0)
}

// FromFrames converts a magnitude spectrogram to one 12-bin chroma vector
// per frame. Energy (magnitude squared) at each frequency, and its octave
// multiples, accumulates into the bin of the nearest pitch class; each
// frame is then normalized to unit sum.
func (e *Extractor) FromFrames(frames *spectral.Frames) [][]float64 {
	if frames == nil || frames.TimeFrames == 0 {
		return [][]float64{}
	}

	mapping := e.binMapping(frames.FreqBins, frames.FreqResolution)

	chromagram := make([][]float64, frames.TimeFrames)
	for t := 0; t < frames.TimeFrames; t++ {
		chromagram[t] = make([]float64, chromaBins)

		for f := 0; f < frames.FreqBins; f++ {
			bin := mapping[f]
			if bin < 0 {
				continue
			}
			mag := frames.Magnitude[t][f]
			chromagram[t][bin] += mag * mag
		}

		normalizeFrame(chromagram[t])
	}

	return chromagram
}

// binMapping precomputes, per FFT bin, the chroma bin its center frequency
// folds to, or -1 outside the analysis range.
func (e *Extractor) binMapping(freqBins int, freqResolution float64) []int {
	mapping := make([]int, freqBins)

	for f := 0; f < freqBins; f++ {
		frequency := float64(f) * freqResolution

		if frequency < e.minFreq || frequency > e.maxFreq {
			mapping[f] = -1
			continue
		}

		mapping[f] = pitchClass(frequency, e.tuningFreq)
	}

	return mapping
}

// pitchClass maps a frequency to its chroma bin (0 = C) via the MIDI note
// number: A4 (tuning frequency) is MIDI 69, and MIDI mod 12 puts C at 0.
func pitchClass(frequency, tuningFreq float64) int {
	midi := 69.0 + chromaBins*math.Log2(frequency/tuningFreq)
	note := int(math.Round(midi)) % chromaBins
	if note < 0 {
		note += chromaBins
	}
	return note
}

func normalizeFrame(frame []float64) {
	total := 0.0
	for _, energy := range frame {
		total += energy
	}

	if total > 1e-10 {
		for i := range frame {
			frame[i] /= total
		}
	}
}
