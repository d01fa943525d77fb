package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipchord/clipchord/analyzer"
	"github.com/clipchord/clipchord/internal/config"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Address:       ":0",
			AllowedOrigin: "*",
		},
		Audio: config.AudioConfig{
			TargetSampleRate: 22050,
			MaxClipSeconds:   20,
		},
		Analysis: analyzer.DefaultConfig(),
	}

	return SetupRouter(cfg, "test")
}

// wavPayload returns a base64-encoded WAV containing the given tone, or
// silence for freq 0.
func wavPayload(t *testing.T, freq float64, duration time.Duration) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	sampleRate := 22050
	frames := int(duration.Seconds() * float64(sampleRate))
	data := make([]int, frames)
	if freq > 0 {
		for i := range data {
			data[i] = int(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) * 32767)
		}
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInfoEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/process-music", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestPreflight(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/process-music", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMethodNotAllowed(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/process-music", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestProcessMusicBadRequests(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing payload", body: map[string]string{}},
		{name: "empty audio data", body: map[string]string{"audioData": ""}},
		{name: "invalid base64", body: map[string]string{"audioData": "not-base64!!!"}},
		{name: "not audio", body: map[string]string{
			"audioData": base64.StdEncoding.EncodeToString([]byte("hello world")),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/process-music", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestProcessMusicMalformedJSON(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/process-music", bytes.NewReader([]byte("{nope")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessMusicSilence(t *testing.T) {
	router := testRouter(t)

	w := postJSON(router, "/api/process-music", map[string]string{
		"audioData": wavPayload(t, 0, 2*time.Second),
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result analyzer.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 120.0, result.Tempo)
	assert.Equal(t, "C", result.Key)
	assert.Equal(t, []string{"C", "G", "Am", "F"}, result.Chords)
}

func TestProcessMusicTone(t *testing.T) {
	router := testRouter(t)

	w := postJSON(router, "/api/process-music", map[string]string{
		"audioData": wavPayload(t, 392, 3*time.Second),
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result analyzer.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Greater(t, result.Tempo, 0.0)
	assert.Len(t, result.Chords, 4)
}
