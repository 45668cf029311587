package config

import (
	"fmt"
	"time"

	"github.com/abrocod/minerva/internal/format"
)

// Validate rejects configurations that cannot produce a correct run. Called
// after flags have been applied, before the pipeline starts.
func (c *Config) Validate() error {
	if _, err := format.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w (want text, markdown, json, srt or xlsx)", err)
	}
	if c.Chunking.MaxBytes <= 0 {
		return fmt.Errorf("chunking.max_bytes must be positive, got %d", c.Chunking.MaxBytes)
	}
	if c.Chunking.SafetyFactor <= 0 || c.Chunking.SafetyFactor > 1 {
		return fmt.Errorf("chunking.safety_factor must be in (0, 1], got %g", c.Chunking.SafetyFactor)
	}
	if c.Chunking.MinChunkSeconds <= 0 {
		return fmt.Errorf("chunking.min_chunk_seconds must be positive, got %g", c.Chunking.MinChunkSeconds)
	}
	if c.Transcription.MaxAttempts < 1 {
		return fmt.Errorf("transcription.max_attempts must be at least 1, got %d", c.Transcription.MaxAttempts)
	}
	if c.Transcription.CallTimeoutSec < 1 {
		return fmt.Errorf("transcription.call_timeout_sec must be at least 1, got %d", c.Transcription.CallTimeoutSec)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return nil
}

// CallTimeout returns the per-transcription-call timeout.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Transcription.CallTimeoutSec) * time.Second
}

// RunTimeout returns the whole-pipeline timeout; zero means none.
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutSec) * time.Second
}
