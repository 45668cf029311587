package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/abrocod/minerva/internal/types"
)

// renderSRT emits SubRip cues, one per segment. A transcript with text but no
// segments becomes a single cue spanning the whole recording so the file is
// still usable.
func renderSRT(m types.MergedTranscript) string {
	segments := m.Segments
	if len(segments) == 0 && m.Text != "" {
		segments = []types.TranscriptSegment{{Start: 0, End: m.Duration, Text: m.Text}}
	}

	var b strings.Builder
	for i, s := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTimestamp(s.Start), srtTimestamp(s.End), strings.TrimSpace(s.Text))
	}
	return b.String()
}

// srtTimestamp formats seconds as the SubRip HH:MM:SS,mmm form.
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	ms := total % 1000
	sec := (total / 1000) % 60
	min := (total / 60000) % 60
	hr := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hr, min, sec, ms)
}
