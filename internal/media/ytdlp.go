package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// YtDlp runs the yt-dlp binary to fetch the best available audio of a remote
// video and convert it to mp3, the same options the python tool used.
type YtDlp struct {
	Bin     string // binary name or absolute path
	Quality string // mp3 bitrate passed to --audio-quality
}

func NewYtDlp(bin string) *YtDlp {
	if bin == "" {
		bin = "yt-dlp"
	}
	return &YtDlp{Bin: bin, Quality: "192K"}
}

// CheckBinary verifies the configured binary is reachable before any work
// starts. yt-dlp is the one tool users most often miss.
func (y *YtDlp) CheckBinary() error {
	if _, err := exec.LookPath(y.Bin); err != nil {
		return fmt.Errorf("yt-dlp not found (%s): install it or set tools.yt_dlp: %w", y.Bin, err)
	}
	return nil
}

// Fetch downloads url into destDir and returns the path of the mp3 written
// there. The output template keeps the video title so transcript files can
// inherit it.
func (y *YtDlp) Fetch(ctx context.Context, url, destDir string) (string, error) {
	args := []string{
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"--audio-quality", y.Quality,
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--no-playlist",
		"--no-progress",
		url,
	}

	cmd := exec.CommandContext(ctx, y.Bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &FetchError{
			Kind:      ClassifyFetchOutput(string(out)),
			Reference: url,
			Err:       fmt.Errorf("yt-dlp: %w: %s", err, firstErrorLine(string(out))),
		}
	}

	matches, err := filepath.Glob(filepath.Join(destDir, "*.mp3"))
	if err != nil {
		return "", fmt.Errorf("scan download dir: %w", err)
	}
	if len(matches) == 0 {
		return "", &FetchError{
			Kind:      FetchUnsupported,
			Reference: url,
			Err:       fmt.Errorf("no mp3 file found after download"),
		}
	}
	return matches[0], nil
}

// ClassifyFetchOutput maps yt-dlp's error text onto a FetchKind. yt-dlp has
// no machine-readable error codes, so this is string sniffing on known
// messages, defaulting to a network fault.
func ClassifyFetchOutput(out string) FetchKind {
	lower := strings.ToLower(out)
	switch {
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "404"),
		strings.Contains(lower, "does not exist"),
		strings.Contains(lower, "this video has been removed"):
		return FetchNotFound
	case strings.Contains(lower, "private video"),
		strings.Contains(lower, "sign in"),
		strings.Contains(lower, "403"),
		strings.Contains(lower, "members-only"):
		return FetchForbidden
	case strings.Contains(lower, "unsupported url"),
		strings.Contains(lower, "no video formats"),
		strings.Contains(lower, "is not a valid url"):
		return FetchUnsupported
	default:
		return FetchNetwork
	}
}

// firstErrorLine trims yt-dlp's chatter down to the first ERROR line, or the
// last non-empty line when there is none.
func firstErrorLine(out string) string {
	lines := strings.Split(out, "\n")
	last := ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR") {
			return line
		}
		last = line
	}
	return last
}
