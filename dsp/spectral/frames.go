package spectral

import (
	"errors"
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"
)

// ErrEmptySignal is returned when a zero-length signal reaches the analyzer.
var ErrEmptySignal = errors.New("empty signal")

// Frames holds the short-time magnitude representation of a signal.
// Magnitude is a TimeFrames x FreqBins matrix over positive frequencies.
type Frames struct {
	Magnitude      [][]float64
	TimeFrames     int
	FreqBins       int
	SampleRate     int
	WindowSize     int
	HopSize        int
	FreqResolution float64 // Hz per frequency bin
	TimeResolution float64 // seconds per frame hop
}

// Window is an analysis window applied to each frame before the transform.
type Window interface {
	ApplyInPlace(signal []float64) error
}

// FrameAnalyzer splits a signal into overlapping windowed frames and
// computes a magnitude spectrum per frame.
type FrameAnalyzer struct {
	fft *FFT
}

// NewFrameAnalyzer creates a new frame analyzer.
func NewFrameAnalyzer() *FrameAnalyzer {
	return &FrameAnalyzer{
		fft: NewFFT(),
	}
}

// Compute analyzes the signal with the given window size and hop size.
// Frames are processed by a bounded worker pool; the result is identical
// regardless of worker count.
func (fa *FrameAnalyzer) Compute(signal []float64, windowSize, hopSize, sampleRate int, win Window) (*Frames, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}

	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive, got %d", hopSize)
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	if numFrames <= 0 {
		return nil, fmt.Errorf("signal too short: %d samples for window %d", len(signal), windowSize)
	}

	freqBins := windowSize/2 + 1

	magnitude := make([][]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		magnitude[i] = make([]float64, freqBins)
	}

	type frameJob struct {
		frameIdx int
		startIdx int
	}

	jobs := make(chan frameJob, numFrames)

	var wg sync.WaitGroup
	for w := 0; w < workerCount(numFrames); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Per-worker frame buffer, reused across jobs
			frameBuffer := make([]float64, windowSize)

			for job := range jobs {
				copy(frameBuffer, signal[job.startIdx:job.startIdx+windowSize])

				if win != nil {
					if err := win.ApplyInPlace(frameBuffer); err != nil {
						continue
					}
				}

				spectrum := fa.fft.Compute(frameBuffer)
				for i := 0; i < freqBins; i++ {
					magnitude[job.frameIdx][i] = cmplx.Abs(spectrum[i])
				}
			}
		}()
	}

	for frameIdx := 0; frameIdx < numFrames; frameIdx++ {
		startIdx := frameIdx * hopSize
		if startIdx+windowSize <= len(signal) {
			jobs <- frameJob{frameIdx: frameIdx, startIdx: startIdx}
		}
	}
	close(jobs)

	wg.Wait()

	return &Frames{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// workerCount sizes the pool to the workload so small clips don't spawn
// more goroutines than frames.
func workerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	return min(numCPU, 8)
}
