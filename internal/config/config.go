// Package config handles service configuration from environment variables,
// with an optional YAML analysis profile.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/clipchord/clipchord/analyzer"
)

// Config holds all service configuration.
type Config struct {
	Server      ServerConfig
	Audio       AudioConfig
	Analysis    analyzer.Config
	LogLevel    string
	Environment string
}

// ServerConfig holds HTTP server and CORS configuration.
type ServerConfig struct {
	Address string
	// AllowedOrigin is the CORS origin to allow; "*" by default since the
	// API serves browser-based creative tools.
	AllowedOrigin string
}

// AudioConfig holds decoding parameters. Two historical profiles exist
// (22050 Hz with a 20 s cap, and 44100 Hz with a 30 s cap); the first is
// the default and the second stays one env var away.
type AudioConfig struct {
	TargetSampleRate int
	MaxClipSeconds   int
}

// profile is the YAML shape of the optional analysis profile file.
type profile struct {
	Audio struct {
		TargetSampleRate int `yaml:"target_sample_rate"`
		MaxClipSeconds   int `yaml:"max_clip_seconds"`
	} `yaml:"audio"`
	Analysis analyzer.Config `yaml:"analysis"`
}

// Load reads configuration from CLIPCHORD_* environment variables. When
// CLIPCHORD_PROFILE points at a YAML file, its audio/analysis sections
// override the defaults before env vars are applied.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address:       getEnv("CLIPCHORD_SERVER_ADDRESS", ":8080"),
			AllowedOrigin: getEnv("CLIPCHORD_ALLOWED_ORIGIN", "*"),
		},
		Audio: AudioConfig{
			TargetSampleRate: 22050,
			MaxClipSeconds:   20,
		},
		Analysis:    analyzer.DefaultConfig(),
		LogLevel:    getEnv("CLIPCHORD_LOG_LEVEL", "info"),
		Environment: getEnv("CLIPCHORD_ENV", "development"),
	}

	if path := os.Getenv("CLIPCHORD_PROFILE"); path != "" {
		if err := cfg.applyProfile(path); err != nil {
			return nil, err
		}
	}

	if v, err := getEnvInt("CLIPCHORD_TARGET_SAMPLE_RATE"); err != nil {
		return nil, err
	} else if v > 0 {
		cfg.Audio.TargetSampleRate = v
	}

	if v, err := getEnvInt("CLIPCHORD_MAX_CLIP_SECONDS"); err != nil {
		return nil, err
	} else if v > 0 {
		cfg.Audio.MaxClipSeconds = v
	}

	if method := os.Getenv("CLIPCHORD_CHROMA_METHOD"); method != "" {
		switch analyzer.ChromaMethod(method) {
		case analyzer.ChromaSTFT, analyzer.ChromaCQT:
			cfg.Analysis.ChromaMethod = analyzer.ChromaMethod(method)
		default:
			return nil, fmt.Errorf("unknown chroma method %q (want stft or cqt)", method)
		}
	}

	return cfg, nil
}

func (c *Config) applyProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read analysis profile: %w", err)
	}

	var p profile
	p.Analysis = c.Analysis
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse analysis profile %s: %w", path, err)
	}

	if p.Audio.TargetSampleRate > 0 {
		c.Audio.TargetSampleRate = p.Audio.TargetSampleRate
	}
	if p.Audio.MaxClipSeconds > 0 {
		c.Audio.MaxClipSeconds = p.Audio.MaxClipSeconds
	}
	c.Analysis = p.Analysis

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: expected integer, got %q", key, value)
	}
	return n, nil
}
