package transcription

import (
	"context"
	"errors"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ErrPayloadTooLarge means a file handed to the client exceeds the provider
// upload limit. The chunk planner exists to prevent this, so it is always
// terminal.
var ErrPayloadTooLarge = errors.New("audio payload exceeds provider upload limit")

// Retryable reports whether a provider error is worth another attempt.
// Rate limits, server errors, and transport failures retry; auth problems,
// malformed requests, and cancellation do not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Anything that made it to the network layer and failed is transient.
	var netErr net.Error
	return errors.As(err, &netErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
