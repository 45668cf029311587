// Package transcription turns audio chunk files into timestamped text through
// a speech-to-text provider, retrying transient failures.
package transcription

import (
	"context"

	"github.com/abrocod/minerva/internal/types"
)

// Request identifies one audio file to transcribe.
type Request struct {
	// Path is the local audio file to upload.
	Path string
	// Language is an optional ISO-639-1 hint. Empty lets the provider detect.
	Language string
}

// Result carries the provider's transcript for a single chunk. Timestamps are
// relative to the start of the submitted file, not the source recording.
type Result struct {
	Text     string
	Language string
	Duration float64
	Segments []types.TranscriptSegment
}

// Provider performs a single transcription call with no retry behavior of its
// own. The Client layers sizing checks and retries on top.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (Result, error)
}
