package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, sampleRate, n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return signal
}

func TestFrameAnalyzerEmptySignal(t *testing.T) {
	fa := NewFrameAnalyzer()

	_, err := fa.Compute(nil, 1024, 512, 22050, nil)
	assert.ErrorIs(t, err, ErrEmptySignal)
}

func TestFrameAnalyzerInvalidParams(t *testing.T) {
	fa := NewFrameAnalyzer()
	signal := sine(440, 22050, 4096)

	_, err := fa.Compute(signal, 0, 512, 22050, nil)
	assert.Error(t, err)

	_, err = fa.Compute(signal, 1024, 0, 22050, nil)
	assert.Error(t, err)

	_, err = fa.Compute(signal[:100], 1024, 512, 22050, nil)
	assert.Error(t, err)
}

func TestFrameAnalyzerShape(t *testing.T) {
	fa := NewFrameAnalyzer()
	signal := sine(440, 22050, 22050) // 1 second

	frames, err := fa.Compute(signal, 1024, 512, 22050, nil)
	require.NoError(t, err)

	expectedFrames := (len(signal)-1024)/512 + 1
	assert.Equal(t, expectedFrames, frames.TimeFrames)
	assert.Equal(t, 1024/2+1, frames.FreqBins)
	assert.Len(t, frames.Magnitude, expectedFrames)
	assert.InDelta(t, 22050.0/1024.0, frames.FreqResolution, 1e-9)
	assert.InDelta(t, 512.0/22050.0, frames.TimeResolution, 1e-9)
}

func TestFrameAnalyzerSinePeakBin(t *testing.T) {
	fa := NewFrameAnalyzer()
	sampleRate := 22050
	signal := sine(440, sampleRate, sampleRate)

	frames, err := fa.Compute(signal, 1024, 512, sampleRate, nil)
	require.NoError(t, err)

	// Peak magnitude should land on the bin nearest 440 Hz in every frame
	expectedBin := int(math.Round(440.0 / frames.FreqResolution))
	for _, mag := range frames.Magnitude {
		peakBin := 0
		for f, m := range mag {
			if m > mag[peakBin] {
				peakBin = f
			}
		}
		assert.InDelta(t, expectedBin, peakBin, 1)
	}
}

func TestFrameAnalyzerDeterministic(t *testing.T) {
	fa := NewFrameAnalyzer()
	signal := sine(440, 22050, 44100)

	first, err := fa.Compute(signal, 1024, 512, 22050, nil)
	require.NoError(t, err)

	// Worker pool scheduling must not affect the result
	for n := 0; n < 3; n++ {
		again, err := fa.Compute(signal, 1024, 512, 22050, nil)
		require.NoError(t, err)
		assert.Equal(t, first.Magnitude, again.Magnitude)
	}
}
