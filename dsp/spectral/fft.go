package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps the go-dsp real FFT.
type FFT struct{}

// NewFFT creates a new FFT calculator.
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the FFT of a real-valued signal.
// go-dsp handles non-power-of-2 sizes, so frames need no padding.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}
