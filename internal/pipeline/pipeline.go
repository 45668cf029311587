// Package pipeline orchestrates a full download-and-transcribe run: acquire
// audio, plan chunks, extract and transcribe them in parallel, merge the
// transcripts, and write the output file.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abrocod/minerva/internal/format"
	"github.com/abrocod/minerva/internal/logger"
	"github.com/abrocod/minerva/internal/media"
	"github.com/abrocod/minerva/internal/merge"
	"github.com/abrocod/minerva/internal/planner"
	"github.com/abrocod/minerva/internal/transcription"
	"github.com/abrocod/minerva/internal/types"
	"github.com/abrocod/minerva/internal/workspace"
)

// Transcriber is what the pipeline needs from the transcription layer.
// *transcription.Client satisfies it.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path, language string) (transcription.Result, error)
}

// Options wires the pipeline's collaborators.
type Options struct {
	Fetcher     media.Fetcher
	Prober      media.Prober
	Slicer      media.Slicer
	Transcriber Transcriber
	Limits      planner.Limits
	Workers     int
	Log         *logrus.Entry
}

// Request describes one transcription run.
type Request struct {
	// URL is the video reference to transcribe.
	URL string
	// Language is an optional ISO-639-1 hint passed to the provider.
	Language string
	// OutputPath overrides the derived transcript location when set.
	OutputPath string
	// OutputDir receives derived transcript files and kept audio.
	OutputDir string
	// Format selects the transcript rendering. Empty means text.
	Format format.Format
	// KeepAudio moves the downloaded audio into OutputDir instead of
	// deleting it with the workspace.
	KeepAudio bool
}

// Pipeline runs transcription requests. Safe for sequential reuse; one Run
// owns one workspace.
type Pipeline struct {
	fetcher     media.Fetcher
	prober      media.Prober
	slicer      media.Slicer
	transcriber Transcriber
	limits      planner.Limits
	workers     int
	log         *logrus.Entry
}

func New(o Options) *Pipeline {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Log == nil {
		o.Log = logger.New().WithField("component", "pipeline")
	}
	return &Pipeline{
		fetcher:     o.Fetcher,
		prober:      o.Prober,
		slicer:      o.Slicer,
		transcriber: o.Transcriber,
		limits:      o.Limits,
		workers:     o.Workers,
		log:         o.Log,
	}
}

// Run executes the whole workflow for one request. The workspace is removed
// on every exit path; on failure no transcript file is written.
func (p *Pipeline) Run(ctx context.Context, req Request) (*types.PipelineResult, error) {
	start := time.Now()
	if req.Format == "" {
		req.Format = format.Text
	}

	ws, err := workspace.New()
	if err != nil {
		return nil, err
	}
	log := p.log.WithField("run_id", ws.RunID)
	defer func() {
		if err := ws.Cleanup(); err != nil {
			log.WithError(err).Warn("failed to clean up workspace")
		}
	}()

	log.WithField("url", req.URL).Info("starting transcription workflow")

	res, err := p.run(ctx, log, ws, req)
	if err != nil {
		log.WithError(err).Error("transcription workflow failed")
		return nil, err
	}

	res.DurationMs = time.Since(start).Milliseconds()
	log.WithFields(logrus.Fields{
		"transcript":  res.TranscriptPath,
		"duration_ms": res.DurationMs,
	}).Info("transcription workflow completed")
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, log *logrus.Entry, ws *workspace.Workspace, req Request) (*types.PipelineResult, error) {
	log.WithField("stage", "download").Info("downloading audio")
	artifact, err := media.Acquire(ctx, p.fetcher, p.prober, req.URL, ws.Dir)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	title := strings.TrimSuffix(filepath.Base(artifact.Path), filepath.Ext(artifact.Path))
	log.WithFields(logrus.Fields{
		"file":     filepath.Base(artifact.Path),
		"size":     artifact.Size,
		"duration": artifact.Duration,
	}).Info("audio downloaded")

	plan, err := planner.Plan(artifact, p.limits)
	if err != nil {
		return nil, fmt.Errorf("plan chunks: %w", err)
	}
	log.WithFields(logrus.Fields{"stage": "transcribe", "chunks": len(plan)}).Info("transcribing audio")

	results, err := p.transcribeChunks(ctx, log, artifact, plan, ws.Dir, req.Language)
	if err != nil {
		return nil, err
	}

	merged, err := merge.Merge(results, artifact.Duration, req.URL)
	if err != nil {
		return nil, fmt.Errorf("merge transcripts: %w", err)
	}
	stats := merge.Summarize(merged)
	log.WithFields(logrus.Fields{"segments": stats.Segments, "words": stats.Words}).Info("transcripts merged")

	outPath := req.OutputPath
	if outPath == "" {
		outPath = filepath.Join(req.OutputDir, format.DefaultFileName(title, req.Format))
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	// Render fully in memory so a formatting failure leaves no partial file.
	var buf bytes.Buffer
	if err := format.Render(&buf, req.Format, merged, title); err != nil {
		return nil, fmt.Errorf("render transcript: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}
	log.WithFields(logrus.Fields{"path": outPath, "format": string(req.Format)}).Info("transcript saved")

	var audioPath string
	if req.KeepAudio {
		destDir := req.OutputDir
		if destDir == "" {
			destDir = filepath.Dir(outPath)
		}
		audioPath, err = workspace.MoveFile(artifact.Path, destDir)
		if err != nil {
			return nil, fmt.Errorf("keep audio: %w", err)
		}
		log.WithField("path", audioPath).Info("audio file saved")
	}

	return &types.PipelineResult{
		TranscriptPath: outPath,
		AudioPath:      audioPath,
		Text:           merged.Text,
		Language:       merged.Language,
		Duration:       merged.Duration,
	}, nil
}

// transcribeChunks runs the chunk plan through a bounded worker pool and
// returns results in chunk order. The first failure cancels the remaining
// work.
func (p *Pipeline) transcribeChunks(ctx context.Context, log *logrus.Entry, artifact types.AudioArtifact, plan types.ChunkPlan, dir, language string) ([]types.ChunkResult, error) {
	results := make([]types.ChunkResult, len(plan))

	// A whole-file plan skips extraction and uploads the download directly.
	if len(plan) == 1 && artifact.Size <= p.limits.MaxBytes {
		res, err := p.transcriber.TranscribeFile(ctx, artifact.Path, language)
		if err != nil {
			return nil, fmt.Errorf("transcribe: %w", err)
		}
		results[0] = types.ChunkResult{Chunk: plan[0], Text: res.Text, Segments: res.Segments, Language: res.Language}
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.workers
	if workers > len(plan) {
		workers = len(plan)
	}

	jobs := make(chan types.ChunkSpec)
	errCh := make(chan error, len(plan))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				res, err := p.processChunk(ctx, log, artifact, chunk, dir, language)
				if err != nil {
					errCh <- fmt.Errorf("chunk %d: %w", chunk.Index, err)
					cancel()
					return
				}
				results[chunk.Index] = res
			}
		}()
	}

feed:
	for _, chunk := range plan {
		select {
		case jobs <- chunk:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) processChunk(ctx context.Context, log *logrus.Entry, artifact types.AudioArtifact, chunk types.ChunkSpec, dir, language string) (types.ChunkResult, error) {
	clog := log.WithField("chunk", chunk.Index)
	clog.WithFields(logrus.Fields{"start": chunk.Start, "end": chunk.End}).Debug("extracting chunk")

	chunkArtifact, err := media.ExtractChunk(ctx, p.slicer, artifact, chunk, dir, p.limits.MaxBytes)
	if err != nil {
		var oversize *media.OversizeError
		if errors.As(err, &oversize) {
			clog.WithFields(logrus.Fields{"size": oversize.Size, "limit": oversize.Limit}).
				Warn("chunk over upload ceiling, re-planning range")
			return p.splitOversizeChunk(ctx, clog, artifact, chunk, oversize, dir, language)
		}
		return types.ChunkResult{}, err
	}

	res, err := p.transcriber.TranscribeFile(ctx, chunkArtifact.Path, language)
	if err != nil {
		return types.ChunkResult{}, err
	}
	// Chunk files are only needed for the upload, so drop them as we go and
	// disk usage stays bounded by the worker count.
	os.Remove(chunkArtifact.Path)

	return types.ChunkResult{Chunk: chunk, Text: res.Text, Segments: res.Segments, Language: res.Language}, nil
}

// splitOversizeChunk re-plans a chunk whose extraction overshot the upload
// ceiling, using the measured byte rate of the oversized file and a tighter
// safety factor. The sub-chunk transcripts fold back into one result for the
// original chunk so ordering downstream is unaffected. A second overshoot is
// terminal.
func (p *Pipeline) splitOversizeChunk(ctx context.Context, log *logrus.Entry, artifact types.AudioArtifact, chunk types.ChunkSpec, oversize *media.OversizeError, dir, language string) (types.ChunkResult, error) {
	rate := float64(oversize.Size) / chunk.Seconds()
	limits := p.limits
	limits.SafetyFactor *= 0.8

	subPlan, err := planner.PlanRange(chunk.Start, chunk.End, rate, limits)
	if err != nil {
		return types.ChunkResult{}, fmt.Errorf("re-plan oversize chunk: %w", err)
	}
	log.WithField("sub_chunks", len(subPlan)).Info("re-planned oversize chunk")

	subDir := filepath.Join(dir, fmt.Sprintf("chunk_%03d_split", chunk.Index))
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		return types.ChunkResult{}, fmt.Errorf("create split dir: %w", err)
	}

	merged := types.ChunkResult{Chunk: chunk}
	for _, sub := range subPlan {
		subArtifact, err := media.ExtractChunk(ctx, p.slicer, artifact, sub, subDir, p.limits.MaxBytes)
		if err != nil {
			var again *media.OversizeError
			if errors.As(err, &again) {
				return types.ChunkResult{}, fmt.Errorf("chunk still over upload ceiling after re-plan: %w", err)
			}
			return types.ChunkResult{}, err
		}

		res, err := p.transcriber.TranscribeFile(ctx, subArtifact.Path, language)
		if err != nil {
			return types.ChunkResult{}, err
		}
		os.Remove(subArtifact.Path)

		// Sub-chunk timestamps stay relative to the original chunk's start;
		// the merger applies the chunk offset once.
		offset := sub.Start - chunk.Start
		for _, s := range res.Segments {
			merged.Segments = append(merged.Segments, types.TranscriptSegment{
				Start: s.Start + offset,
				End:   s.End + offset,
				Text:  s.Text,
			})
		}
		if text := strings.TrimSpace(res.Text); text != "" {
			if merged.Text != "" {
				merged.Text += " "
			}
			merged.Text += text
		}
		if merged.Language == "" {
			merged.Language = res.Language
		}
	}
	return merged, nil
}
