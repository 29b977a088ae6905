package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "REELGRAPH_"

// Config holds all application configuration
type Config struct {
	// Work directories
	InputDir  string `yaml:"input_dir" env:"INPUT_DIR"`
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg" envPrefix:"FFMPEG_"`

	// Encoder defaults for SaveVideo
	Encoding EncodingConfig `yaml:"encoding" envPrefix:"ENCODING_"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path" env:"BINARY_PATH"`
	ProbePath  string `yaml:"probe_path" env:"PROBE_PATH"`
	Threads    int    `yaml:"threads" env:"THREADS"`
}

type EncodingConfig struct {
	VideoCodec string  `yaml:"video_codec" env:"VIDEO_CODEC"`
	Bitrate    string  `yaml:"bitrate" env:"BITRATE"`
	AudioCodec string  `yaml:"audio_codec" env:"AUDIO_CODEC"`
	Preset     string  `yaml:"preset" env:"PRESET"`
	CRF        int     `yaml:"crf" env:"CRF"`
	FPS        float64 `yaml:"fps" env:"FPS"`
}

type LoggingConfig struct {
	Verbose bool `yaml:"verbose" env:"VERBOSE"`
	JSON    bool `yaml:"json" env:"JSON"`
}

// Load reads configuration from file or returns defaults, then applies
// REELGRAPH_* environment overrides
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings that no node could work with
func (c *Config) Validate() error {
	if c.FFmpeg.Threads < 0 {
		return fmt.Errorf("ffmpeg.threads must be >= 0, got %d", c.FFmpeg.Threads)
	}
	if c.Encoding.CRF < 0 || c.Encoding.CRF > 51 {
		return fmt.Errorf("encoding.crf must be in [0, 51], got %d", c.Encoding.CRF)
	}
	if c.Encoding.FPS <= 0 {
		return fmt.Errorf("encoding.fps must be positive, got %v", c.Encoding.FPS)
	}
	return nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Default returns the built-in configuration
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		InputDir:  "./input",
		OutputDir: "./output",
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
			Threads:    0,
		},
		Encoding: EncodingConfig{
			VideoCodec: "libx264",
			Bitrate:    "8000k",
			AudioCodec: "aac",
			Preset:     "ultrafast",
			CRF:        23,
			FPS:        24,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./reelgraph.yaml",
		"./config.yaml",
		"./config.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".reelgraph", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
