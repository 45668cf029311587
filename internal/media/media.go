// Package media wraps the external yt-dlp / ffmpeg tooling behind small
// capability interfaces so the pipeline logic can run against fakes.
//
// It covers three capabilities:
//   - fetching remote media as a local audio file (yt-dlp)
//   - probing audio duration (ffprobe)
//   - slicing a time range out of an audio file (ffmpeg)
package media

import "context"

// Fetcher downloads the audio of a remote media reference into destDir and
// returns the path of the resulting file.
type Fetcher interface {
	Fetch(ctx context.Context, url, destDir string) (string, error)
}

// Prober reports the duration of a local audio file in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// Slicer copies the [start, end) range of src into dest without re-encoding.
type Slicer interface {
	Slice(ctx context.Context, src string, start, end float64, dest string) error
}
