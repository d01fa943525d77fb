package api

import (
	"encoding/base64"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clipchord/clipchord/analyzer"
	"github.com/clipchord/clipchord/decode"
	"github.com/clipchord/clipchord/internal/config"
	"github.com/clipchord/clipchord/logging"
)

// ProcessMusicRequest is the analysis request body.
type ProcessMusicRequest struct {
	// AudioData is a base64-encoded WAV payload.
	AudioData string `json:"audioData"`
}

// MusicHandler serves the music analysis endpoints.
type MusicHandler struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	logger   logging.Logger
}

// NewMusicHandler creates the handler around a configured analyzer.
func NewMusicHandler(cfg *config.Config, a *analyzer.Analyzer) *MusicHandler {
	return &MusicHandler{
		cfg:      cfg,
		analyzer: a,
		logger:   logging.WithFields(logging.Fields{"component": "music_handler"}),
	}
}

// Info answers GET requests with a liveness/info response.
func (h *MusicHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "clipchord API is running",
		"endpoints": gin.H{
			"POST /api/process-music": "analyze audio and suggest chords",
		},
	})
}

// ProcessMusic decodes the base64 WAV payload, stages it through a temp
// file, runs the analysis and returns the flat result. Transport-level
// problems (missing payload, bad base64, undecodable audio) map to 400;
// estimator fallbacks inside the core never surface as errors.
func (h *MusicHandler) ProcessMusic(c *gin.Context) {
	var req ProcessMusicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: expected JSON with audioData",
		})
		return
	}

	if req.AudioData == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "no audio data provided",
		})
		return
	}

	audioBytes, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "audioData is not valid base64",
		})
		return
	}

	samples, sampleRate, err := h.stageAndDecode(audioBytes)
	if err != nil {
		h.logger.Warn("audio decoding failed", logging.Fields{
			"error":      err.Error(),
			"request_id": c.GetString("request_id"),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "audio processing error: " + err.Error(),
		})
		return
	}

	result := h.analyzer.Analyze(samples, sampleRate)
	c.JSON(http.StatusOK, result)
}

// stageAndDecode writes the payload to a temporary file and decodes it to
// mono PCM at the configured target rate and duration cap. The container
// decoder needs a seekable file, hence the staging.
func (h *MusicHandler) stageAndDecode(audioBytes []byte) ([]float64, int, error) {
	tmpFile, err := os.CreateTemp("", "clipchord-*.wav")
	if err != nil {
		return nil, 0, err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(audioBytes); err != nil {
		tmpFile.Close()
		return nil, 0, err
	}
	if err := tmpFile.Close(); err != nil {
		return nil, 0, err
	}

	return decode.WAVFile(tmpPath, decode.Options{
		MaxDuration:      time.Duration(h.cfg.Audio.MaxClipSeconds) * time.Second,
		TargetSampleRate: h.cfg.Audio.TargetSampleRate,
	})
}
