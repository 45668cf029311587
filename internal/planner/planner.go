// Package planner splits an audio artifact into time ranges whose estimated
// encoded size stays under the transcription upload ceiling.
package planner

import (
	"errors"
	"fmt"

	"github.com/abrocod/minerva/internal/types"
)

var (
	// ErrZeroDuration is returned when the artifact or range to plan has no
	// positive duration to split.
	ErrZeroDuration = errors.New("audio duration is zero")

	// ErrCeilingUnsatisfiable is returned when the byte rate is so high that
	// even a minimum-length chunk would exceed the upload ceiling.
	ErrCeilingUnsatisfiable = errors.New("upload ceiling cannot be satisfied at this byte rate")
)

// Limits carries the sizing rules the planner works against.
type Limits struct {
	// MaxBytes is the hard upload ceiling per chunk.
	MaxBytes int64
	// SafetyFactor shrinks the target chunk size below the ceiling to absorb
	// encoder overhead and non-uniform bitrate. In (0, 1].
	SafetyFactor float64
	// MinChunkSeconds is the shortest chunk worth transcribing on its own.
	MinChunkSeconds float64
}

// Plan produces a contiguous chunk plan covering the whole artifact. An
// artifact already under the ceiling becomes a single whole-file chunk with
// no byte-rate estimation at all.
func Plan(artifact types.AudioArtifact, limits Limits) (types.ChunkPlan, error) {
	if artifact.Duration <= 0 {
		return nil, ErrZeroDuration
	}
	if artifact.Size <= limits.MaxBytes {
		return types.ChunkPlan{{Index: 0, Start: 0, End: artifact.Duration}}, nil
	}
	rate := float64(artifact.Size) / artifact.Duration
	return PlanRange(0, artifact.Duration, rate, limits)
}

// PlanRange splits [start, end) into chunks sized from a uniform byte-rate
// estimate. Indexes restart at zero, so a caller re-planning a single failed
// chunk gets a self-contained sub-plan for that range.
func PlanRange(start, end, bytesPerSecond float64, limits Limits) (types.ChunkPlan, error) {
	span := end - start
	if span <= 0 {
		return nil, ErrZeroDuration
	}

	target := (float64(limits.MaxBytes) * limits.SafetyFactor) / bytesPerSecond
	if target < limits.MinChunkSeconds {
		return nil, fmt.Errorf("%w: target chunk %.3fs below minimum %.3fs",
			ErrCeilingUnsatisfiable, target, limits.MinChunkSeconds)
	}

	var plan types.ChunkPlan
	for cur := start; cur < end; {
		next := cur + target
		if next > end {
			next = end
		}
		plan = append(plan, types.ChunkSpec{Index: len(plan), Start: cur, End: next})
		cur = next
	}

	// A short tail rides along with the previous chunk instead of becoming a
	// sliver the transcriber would mangle. The safety margin covers the extra
	// bytes.
	if n := len(plan); n > 1 && plan[n-1].Seconds() < limits.MinChunkSeconds {
		plan[n-2].End = plan[n-1].End
		plan = plan[:n-1]
	}

	return plan, nil
}
