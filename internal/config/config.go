package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Whisper rejects payloads over 25 MiB; everything downstream plans around it.
const DefaultMaxUploadBytes = 25 * 1024 * 1024

// Config collects every knob of a pipeline run. Values come from, in rising
// precedence: built-in defaults, the optional minerva.yaml file, environment
// variables, command-line flags (applied by the caller).
type Config struct {
	// Paths
	OutputDir string `yaml:"output_dir"`

	// Output
	Format    string `yaml:"format"` // text|markdown|json|srt|xlsx
	Language  string `yaml:"language"`
	KeepAudio bool   `yaml:"keep_audio"`

	// Chunking
	Chunking struct {
		MaxBytes        int64   `yaml:"max_bytes"`
		SafetyFactor    float64 `yaml:"safety_factor"`
		MinChunkSeconds float64 `yaml:"min_chunk_seconds"`
	} `yaml:"chunking"`

	// Remote transcription
	Transcription struct {
		Model          string `yaml:"model"`
		BaseURL        string `yaml:"base_url"`
		MaxAttempts    int    `yaml:"max_attempts"`
		CallTimeoutSec int    `yaml:"call_timeout_sec"`
	} `yaml:"transcription"`

	// Pipeline
	Workers       int `yaml:"workers"`
	RunTimeoutSec int `yaml:"run_timeout_sec"`

	// External binaries
	Tools struct {
		YtDlp   string `yaml:"yt_dlp"`
		FFmpeg  string `yaml:"ffmpeg"`
		FFprobe string `yaml:"ffprobe"`
	} `yaml:"tools"`

	// Secret, environment only, never serialized
	APIKey string `yaml:"-"`
}

func defaultConfig() *Config {
	c := &Config{}

	c.OutputDir = filepath.Join(dataRoot(), "youtube_data", "downloads")

	c.Format = "text"
	c.Language = ""
	c.KeepAudio = false

	c.Chunking.MaxBytes = DefaultMaxUploadBytes
	c.Chunking.SafetyFactor = 0.9
	c.Chunking.MinChunkSeconds = 1.0

	c.Transcription.Model = "whisper-1"
	c.Transcription.BaseURL = ""
	c.Transcription.MaxAttempts = 3
	c.Transcription.CallTimeoutSec = 300

	c.Workers = 2
	c.RunTimeoutSec = 7200

	c.Tools.YtDlp = "yt-dlp"
	c.Tools.FFmpeg = "ffmpeg"
	c.Tools.FFprobe = "ffprobe"

	return c
}

// dataRoot resolves the minerva data root. MINERVA_ROOT_DIR overrides for
// installs that keep tool artifacts in one place; otherwise the working
// directory is the root.
func dataRoot() string {
	if root := strings.TrimSpace(os.Getenv("MINERVA_ROOT_DIR")); root != "" {
		return root
	}
	return "."
}

// Load builds the config from defaults, then the YAML file at path when it
// exists, then environment variables. A missing file is only an error when
// the path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if path == "" {
		path = "minerva.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.Transcription.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("MINERVA_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
}

func (c *Config) normalize() {
	c.OutputDir = filepath.Clean(c.OutputDir)
	c.Format = strings.TrimSpace(strings.ToLower(c.Format))
	if c.Format == "" {
		c.Format = "text"
	}
	c.Language = strings.TrimSpace(strings.ToLower(c.Language))

	if c.Tools.YtDlp == "" {
		c.Tools.YtDlp = "yt-dlp"
	}
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = "ffmpeg"
	}
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = "ffprobe"
	}
}
