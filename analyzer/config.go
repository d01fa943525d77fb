package analyzer

// ChromaMethod selects how frame spectra are folded into pitch classes.
type ChromaMethod string

const (
	// ChromaSTFT folds linear FFT bins into pitch classes. Canonical default.
	ChromaSTFT ChromaMethod = "stft"
	// ChromaCQT aggregates constant-Q semitone bands before folding.
	ChromaCQT ChromaMethod = "cqt"
)

// Config holds the analysis parameters. Historical deployments diverged on
// sample rate, duration cap and chroma method; those are deliberately
// configuration here (the service layer owns sample rate and duration),
// with one canonical default.
type Config struct {
	// WindowSize is the analysis frame length in samples (~46 ms at 22050 Hz).
	WindowSize int `json:"window_size" yaml:"window_size"`
	// HopSize is the step between frame starts in samples.
	HopSize int `json:"hop_size" yaml:"hop_size"`

	ChromaMethod ChromaMethod `json:"chroma_method" yaml:"chroma_method"`
	// TuningFreq is the A4 reference frequency in Hz.
	TuningFreq float64 `json:"tuning_freq" yaml:"tuning_freq"`

	// Tempo search range in BPM.
	MinBPM float64 `json:"min_bpm" yaml:"min_bpm"`
	MaxBPM float64 `json:"max_bpm" yaml:"max_bpm"`
}

// DefaultConfig returns the canonical analysis configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize:   1024,
		HopSize:      512,
		ChromaMethod: ChromaSTFT,
		TuningFreq:   440.0,
		MinBPM:       40.0,
		MaxBPM:       240.0,
	}
}
