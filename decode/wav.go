// Package decode turns WAV containers into the mono float64 PCM the
// analyzer consumes: downmixed, normalized to [-1, 1], duration-capped and
// optionally resampled.
package decode

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Options controls decoding.
type Options struct {
	// MaxDuration truncates the clip; zero means no cap.
	MaxDuration time.Duration
	// TargetSampleRate resamples the decoded signal when positive and
	// different from the container rate; zero keeps the native rate.
	TargetSampleRate int
}

// WAVFile decodes a WAV file into mono samples and its effective sample
// rate. Multi-channel audio is downmixed by averaging.
func WAVFile(path string, opts Options) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file: %s", path)
	}

	sampleRate := int(decoder.SampleRate)
	channels := int(decoder.NumChans)
	if sampleRate <= 0 || channels <= 0 {
		return nil, 0, fmt.Errorf("invalid WAV format: sample rate %d, channels %d", sampleRate, channels)
	}

	duration, err := decoder.Duration()
	if err != nil {
		return nil, 0, fmt.Errorf("read wav duration: %w", err)
	}

	if opts.MaxDuration > 0 && duration > opts.MaxDuration {
		duration = opts.MaxDuration
	}

	totalFrames := int(duration.Seconds() * float64(sampleRate))
	if totalFrames == 0 {
		return nil, 0, fmt.Errorf("no samples in WAV file: %s", path)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, totalFrames*channels),
		SourceBitDepth: int(decoder.BitDepth),
	}

	read, err := decoder.PCMBuffer(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("read wav samples: %w", err)
	}
	if read == 0 {
		return nil, 0, fmt.Errorf("no samples in WAV file: %s", path)
	}

	samples := downmix(buf.Data[:read], channels, int(decoder.BitDepth))

	if opts.TargetSampleRate > 0 && opts.TargetSampleRate != sampleRate {
		samples = Resample(samples, sampleRate, opts.TargetSampleRate)
		sampleRate = opts.TargetSampleRate
	}

	return samples, sampleRate, nil
}

// downmix averages interleaved integer channels into normalized mono.
func downmix(data []int, channels, bitDepth int) []float64 {
	frames := len(data) / channels
	maxVal := float64(int(1) << (uint(bitDepth) - 1))

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / maxVal
	}

	return samples
}

// Resample converts a signal between sample rates by linear interpolation.
// Accurate enough for the coarse estimates downstream; no anti-alias filter.
func Resample(samples []float64, fromRate, toRate int) []float64 {
	if len(samples) == 0 || fromRate <= 0 || toRate <= 0 || fromRate == toRate {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen == 0 {
		return []float64{}
	}

	out := make([]float64, outLen)
	for i := 0; i < outLen; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1.0-frac) + samples[idx+1]*frac
	}

	return out
}
