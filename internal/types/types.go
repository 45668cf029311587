package types

// AudioArtifact is a local audio file produced by the downloader or by the
// chunk extractor. Size is always measured from disk, never taken from tool
// metadata, because the chunk planner's byte math depends on it.
type AudioArtifact struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"` // seconds
	Size     int64   `json:"size"`     // bytes
	Encoding string  `json:"encoding"` // e.g. "mp3"
}

// ChunkSpec is one planned time-range of the source audio.
type ChunkSpec struct {
	Index int     `json:"index"`
	Start float64 `json:"start"` // seconds, inclusive
	End   float64 `json:"end"`   // seconds, exclusive
}

// Seconds returns the chunk length.
func (c ChunkSpec) Seconds() float64 {
	return c.End - c.Start
}

// ChunkPlan covers [0, duration) with contiguous, non-overlapping chunks:
// chunks[0].Start == 0, chunks[i].End == chunks[i+1].Start, and the last
// chunk ends at the total duration.
type ChunkPlan []ChunkSpec

// TranscriptSegment is a timestamped span of transcribed text. Inside a
// ChunkResult the timestamps are relative to that chunk's own audio; inside a
// MergedTranscript they are absolute over the whole media.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ChunkResult is the transcription of a single chunk.
type ChunkResult struct {
	Chunk    ChunkSpec           `json:"chunk"`
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language,omitempty"`
}

// MergedTranscript is the pipeline's terminal artifact: one ordered,
// absolute-timeline transcript for the whole media.
type MergedTranscript struct {
	Text     string              `json:"full_text"`
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language,omitempty"`
	Duration float64             `json:"duration"`
	Source   string              `json:"source,omitempty"`
}

// PipelineResult is the externally visible success value of a run.
type PipelineResult struct {
	TranscriptPath string  `json:"transcript_path"`
	AudioPath      string  `json:"audio_path,omitempty"` // set only when audio is retained
	Text           string  `json:"transcription_text"`
	Language       string  `json:"language,omitempty"`
	Duration       float64 `json:"duration"`
	DurationMs     int64   `json:"duration_ms"` // wall-clock processing time
}
