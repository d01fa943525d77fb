package analyzer

// Result is the musical summary of one clip. It serializes flat:
// on success Tempo/Key/Chords are set, on failure only Error is.
// Success is false only for signal-level failures; estimator failures are
// absorbed into defaults upstream and never reach this flag.
type Result struct {
	Success bool     `json:"success"`
	Tempo   float64  `json:"tempo,omitempty"`
	Key     string   `json:"key,omitempty"`
	Chords  []string `json:"chords,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Failure builds a failure result with a descriptive error message.
func Failure(message string) Result {
	return Result{
		Success: false,
		Error:   message,
	}
}
