package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/abrocod/minerva/internal/types"
)

// ValidateReference rejects references that are not plausible media URLs
// before any external tool runs.
func ValidateReference(reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return &FetchError{Kind: FetchInvalidReference, Reference: reference, Err: fmt.Errorf("empty reference")}
	}
	u, err := url.Parse(reference)
	if err != nil {
		return &FetchError{Kind: FetchInvalidReference, Reference: reference, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &FetchError{Kind: FetchInvalidReference, Reference: reference, Err: fmt.Errorf("scheme %q is not http(s)", u.Scheme)}
	}
	if u.Host == "" {
		return &FetchError{Kind: FetchInvalidReference, Reference: reference, Err: fmt.Errorf("missing host")}
	}
	return nil
}

// Acquire downloads the audio for reference into destDir and returns it as an
// artifact with measured size and probed duration. Size comes from the
// filesystem, not tool metadata, because chunk planning depends on it.
func Acquire(ctx context.Context, f Fetcher, p Prober, reference, destDir string) (types.AudioArtifact, error) {
	if err := ValidateReference(reference); err != nil {
		return types.AudioArtifact{}, err
	}

	path, err := f.Fetch(ctx, reference, destDir)
	if err != nil {
		return types.AudioArtifact{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.AudioArtifact{}, fmt.Errorf("stat downloaded audio: %w", err)
	}

	duration, err := p.Probe(ctx, path)
	if err != nil {
		return types.AudioArtifact{}, fmt.Errorf("probe downloaded audio: %w", err)
	}

	return types.AudioArtifact{
		Path:     path,
		Duration: duration,
		Size:     info.Size(),
		Encoding: encodingFromPath(path),
	}, nil
}

func encodingFromPath(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 || i == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[i+1:])
}
