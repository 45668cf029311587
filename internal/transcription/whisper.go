package transcription

import (
	"context"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abrocod/minerva/internal/types"
)

// Whisper is the OpenAI-backed Provider. It always requests verbose JSON so
// segment timestamps come back alongside the text.
type Whisper struct {
	client *openai.Client
	model  string
}

// NewWhisper builds a provider against the OpenAI API. baseURL and httpClient
// are optional overrides, baseURL mainly for compatible self-hosted endpoints.
func NewWhisper(apiKey, baseURL, model string, httpClient *http.Client) *Whisper {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{client: openai.NewClientWithConfig(cfg), model: model}
}

func (w *Whisper) Transcribe(ctx context.Context, req Request) (Result, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: req.Path,
		Language: req.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return Result{}, err
	}

	segments := make([]types.TranscriptSegment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, types.TranscriptSegment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}

	return Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: resp.Duration,
		Segments: segments,
	}, nil
}
