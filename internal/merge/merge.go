// Package merge folds per-chunk transcripts back into one transcript on the
// source recording's timeline.
package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abrocod/minerva/internal/types"
)

var (
	// ErrMissingChunk means the result set has a gap, so a stitched transcript
	// would silently drop audio.
	ErrMissingChunk = errors.New("chunk result missing")

	// ErrOutOfOrder means the result set is not in ascending chunk order.
	ErrOutOfOrder = errors.New("chunk results out of order")
)

// Merge stitches chunk results into a single transcript. Each chunk's segment
// timestamps are relative to the chunk file, so they shift by the chunk's
// start offset to land on the source timeline. The results must arrive
// complete and in ascending index order.
func Merge(results []types.ChunkResult, duration float64, source string) (types.MergedTranscript, error) {
	if len(results) == 0 {
		return types.MergedTranscript{}, fmt.Errorf("%w: empty result set", ErrMissingChunk)
	}

	var (
		parts    []string
		segments []types.TranscriptSegment
		language string
	)
	for pos, r := range results {
		if pos > 0 && r.Chunk.Index <= results[pos-1].Chunk.Index {
			return types.MergedTranscript{}, fmt.Errorf("%w: chunk %d after chunk %d",
				ErrOutOfOrder, r.Chunk.Index, results[pos-1].Chunk.Index)
		}
		if r.Chunk.Index != pos {
			return types.MergedTranscript{}, fmt.Errorf("%w: expected chunk %d, have %d",
				ErrMissingChunk, pos, r.Chunk.Index)
		}

		if text := strings.TrimSpace(r.Text); text != "" {
			parts = append(parts, text)
		}
		for _, s := range r.Segments {
			segments = append(segments, types.TranscriptSegment{
				Start: s.Start + r.Chunk.Start,
				End:   s.End + r.Chunk.Start,
				Text:  s.Text,
			})
		}
		if language == "" {
			language = r.Language
		}
	}

	return types.MergedTranscript{
		Text:     strings.Join(parts, " "),
		Segments: segments,
		Language: language,
		Duration: duration,
		Source:   source,
	}, nil
}

// Stats summarizes a merged transcript for completion logging.
type Stats struct {
	Segments int
	Words    int
}

func Summarize(m types.MergedTranscript) Stats {
	return Stats{
		Segments: len(m.Segments),
		Words:    len(strings.Fields(m.Text)),
	}
}
