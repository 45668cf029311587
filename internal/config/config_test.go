package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func neutralizeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_BASE_URL", "MINERVA_OUTPUT_DIR", "MINERVA_ROOT_DIR"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	neutralizeEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Format != "text" {
		t.Errorf("format %q, want text", cfg.Format)
	}
	if cfg.Chunking.MaxBytes != DefaultMaxUploadBytes {
		t.Errorf("max bytes %d, want %d", cfg.Chunking.MaxBytes, DefaultMaxUploadBytes)
	}
	if cfg.Chunking.SafetyFactor != 0.9 {
		t.Errorf("safety factor %g", cfg.Chunking.SafetyFactor)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers %d, want 2", cfg.Workers)
	}
	if cfg.Transcription.Model != "whisper-1" {
		t.Errorf("model %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.MaxAttempts != 3 {
		t.Errorf("max attempts %d", cfg.Transcription.MaxAttempts)
	}
	if want := filepath.Join("youtube_data", "downloads"); cfg.OutputDir != want {
		t.Errorf("output dir %q, want %q", cfg.OutputDir, want)
	}
	if cfg.Tools.YtDlp != "yt-dlp" || cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.FFprobe != "ffprobe" {
		t.Errorf("tool defaults: %+v", cfg.Tools)
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	neutralizeEnv(t)

	path := filepath.Join(t.TempDir(), "minerva.yaml")
	yaml := strings.Join([]string{
		"output_dir: /srv/transcripts",
		"format: Markdown",
		"workers: 4",
		"chunking:",
		"  safety_factor: 0.8",
		"  min_chunk_seconds: 2.5",
		"transcription:",
		"  model: whisper-1",
		"  max_attempts: 5",
		"  call_timeout_sec: 120",
		"tools:",
		"  ffmpeg: /opt/ffmpeg/bin/ffmpeg",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "/srv/transcripts" {
		t.Errorf("output dir %q", cfg.OutputDir)
	}
	if cfg.Format != "markdown" {
		t.Errorf("format %q, want lowercased markdown", cfg.Format)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers %d", cfg.Workers)
	}
	if cfg.Chunking.SafetyFactor != 0.8 {
		t.Errorf("safety factor %g", cfg.Chunking.SafetyFactor)
	}
	if cfg.Chunking.MinChunkSeconds != 2.5 {
		t.Errorf("min chunk seconds %g", cfg.Chunking.MinChunkSeconds)
	}
	if cfg.Chunking.MaxBytes != DefaultMaxUploadBytes {
		t.Errorf("untouched max bytes changed: %d", cfg.Chunking.MaxBytes)
	}
	if cfg.Transcription.MaxAttempts != 5 || cfg.Transcription.CallTimeoutSec != 120 {
		t.Errorf("transcription overrides: %+v", cfg.Transcription)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ffmpeg tool %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.YtDlp != "yt-dlp" {
		t.Errorf("yt-dlp default lost: %q", cfg.Tools.YtDlp)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	neutralizeEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit missing config accepted")
	}
}

func TestEnvOverrides(t *testing.T) {
	neutralizeEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:9999/v1")
	outDir := t.TempDir()
	t.Setenv("MINERVA_OUTPUT_DIR", outDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("api key %q", cfg.APIKey)
	}
	if cfg.Transcription.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("base url %q", cfg.Transcription.BaseURL)
	}
	if cfg.OutputDir != outDir {
		t.Errorf("output dir %q, want %q", cfg.OutputDir, outDir)
	}
}

func TestRootDirDefault(t *testing.T) {
	neutralizeEnv(t)
	t.Setenv("MINERVA_ROOT_DIR", "/data/minerva")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join("/data/minerva", "youtube_data", "downloads"); cfg.OutputDir != want {
		t.Errorf("output dir %q, want %q", cfg.OutputDir, want)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := defaultConfig()
		c.APIKey = "sk-test"
		return c
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("default config with key rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown format", func(c *Config) { c.Format = "yaml" }},
		{"zero max bytes", func(c *Config) { c.Chunking.MaxBytes = 0 }},
		{"safety factor over one", func(c *Config) { c.Chunking.SafetyFactor = 1.5 }},
		{"safety factor zero", func(c *Config) { c.Chunking.SafetyFactor = 0 }},
		{"zero min chunk", func(c *Config) { c.Chunking.MinChunkSeconds = 0 }},
		{"zero attempts", func(c *Config) { c.Transcription.MaxAttempts = 0 }},
		{"zero call timeout", func(c *Config) { c.Transcription.CallTimeoutSec = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"missing api key", func(c *Config) { c.APIKey = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}
