// Package analyzer assembles the feature-extraction pipeline: framing,
// onset envelope, tempo, chroma, key and chord suggestion for one clip.
package analyzer

import (
	"fmt"

	"github.com/clipchord/clipchord/dsp/chroma"
	"github.com/clipchord/clipchord/dsp/spectral"
	"github.com/clipchord/clipchord/dsp/tempo"
	"github.com/clipchord/clipchord/dsp/window"
	"github.com/clipchord/clipchord/logging"
	"github.com/clipchord/clipchord/music"
)

// chromaExtractor is satisfied by both chroma methods.
type chromaExtractor interface {
	FromFrames(frames *spectral.Frames) [][]float64
}

// Analyzer runs the full analysis pipeline. It is stateless between calls:
// each Analyze invocation works on invocation-local buffers only, so one
// Analyzer may serve concurrent requests.
type Analyzer struct {
	cfg    Config
	frames *spectral.FrameAnalyzer
	onset  *spectral.OnsetEnvelope
	tempo  *tempo.Estimator
	chroma chromaExtractor
	win    *window.Hann
	logger logging.Logger
}

// New creates an analyzer with the given configuration. Zero-valued config
// fields fall back to the canonical defaults.
func New(cfg Config) *Analyzer {
	defaults := DefaultConfig()
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaults.WindowSize
	}
	if cfg.HopSize <= 0 {
		cfg.HopSize = defaults.HopSize
	}
	if cfg.TuningFreq <= 0 {
		cfg.TuningFreq = defaults.TuningFreq
	}
	if cfg.MinBPM <= 0 || cfg.MaxBPM <= cfg.MinBPM {
		cfg.MinBPM = defaults.MinBPM
		cfg.MaxBPM = defaults.MaxBPM
	}

	var extractor chromaExtractor
	switch cfg.ChromaMethod {
	case ChromaCQT:
		extractor = chroma.NewCQTExtractor(cfg.TuningFreq)
	default:
		cfg.ChromaMethod = ChromaSTFT
		extractor = chroma.NewExtractor(cfg.TuningFreq)
	}

	return &Analyzer{
		cfg:    cfg,
		frames: spectral.NewFrameAnalyzer(),
		onset:  spectral.NewOnsetEnvelope(),
		tempo:  tempo.NewEstimator(cfg.MinBPM, cfg.MaxBPM),
		chroma: extractor,
		win:    window.NewHann(cfg.WindowSize),
		logger: logging.WithFields(logging.Fields{"component": "analyzer"}),
	}
}

// NewDefault creates an analyzer with the canonical configuration.
func NewDefault() *Analyzer {
	return New(DefaultConfig())
}

// Analyze produces the musical summary for already-decoded mono PCM.
// The caller owns sample rate and duration capping.
//
// Tempo and key estimation run independently over the same frame
// representation; each recovers to its own default on failure, so the only
// failure Result comes from an unusable signal (no samples or a
// non-positive sample rate).
func (a *Analyzer) Analyze(samples []float64, sampleRate int) Result {
	if len(samples) == 0 {
		return Failure("empty audio signal: no samples to analyze")
	}
	if sampleRate <= 0 {
		return Failure(fmt.Sprintf("invalid sample rate: %d", sampleRate))
	}

	frames, err := a.frames.Compute(samples, a.cfg.WindowSize, a.cfg.HopSize, sampleRate, a.win)
	if err != nil {
		// Non-empty but shorter than one analysis window: both estimators
		// fall back to their defaults rather than failing the clip.
		a.logger.Debug("frame analysis degenerate", logging.Fields{
			"samples": len(samples),
			"reason":  err.Error(),
		})
		frames = nil
	}

	var envelope []float64
	var chromagram [][]float64
	if frames != nil {
		envelope = a.onset.Compute(frames.Magnitude)
		chromagram = a.chroma.FromFrames(frames)
	}

	tempoEstimate := a.tempo.Estimate(envelope, sampleRate, a.cfg.HopSize)
	keyEstimate := music.EstimateKey(chromagram)
	chords := music.ChordProgression(keyEstimate.Key, tempoEstimate.BPM)

	a.logger.Debug("analysis complete", logging.Fields{
		"tempo":          tempoEstimate.BPM,
		"tempo_fallback": tempoEstimate.Fallback,
		"key":            keyEstimate.Key,
		"key_fallback":   keyEstimate.Fallback,
	})

	return Result{
		Success: true,
		Tempo:   tempoEstimate.BPM,
		Key:     keyEstimate.Key,
		Chords:  chords,
		Message: "music analysis complete",
	}
}

// Config returns the effective analysis configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}
