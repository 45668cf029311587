package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abrocod/minerva/internal/types"
)

// ChunkFileName returns the file name used for an extracted chunk. Zero-padded
// so directory listings sort in chunk order.
func ChunkFileName(index int, encoding string) string {
	if encoding == "" {
		encoding = "mp3"
	}
	return fmt.Sprintf("chunk_%03d.%s", index, encoding)
}

// ExtractChunk cuts the chunk's time range out of the source artifact into
// destDir and verifies the produced file against maxBytes. A chunk that still
// exceeds the ceiling after extraction comes back as an OversizeError so the
// caller can re-plan the range with a tighter safety factor.
func ExtractChunk(ctx context.Context, s Slicer, src types.AudioArtifact, chunk types.ChunkSpec, destDir string, maxBytes int64) (types.AudioArtifact, error) {
	dest := filepath.Join(destDir, ChunkFileName(chunk.Index, src.Encoding))

	if err := s.Slice(ctx, src.Path, chunk.Start, chunk.End, dest); err != nil {
		return types.AudioArtifact{}, fmt.Errorf("extract chunk %d [%s - %s]: %w",
			chunk.Index, formatSeconds(chunk.Start), formatSeconds(chunk.End), err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return types.AudioArtifact{}, fmt.Errorf("stat chunk %d: %w", chunk.Index, err)
	}

	if maxBytes > 0 && info.Size() > maxBytes {
		return types.AudioArtifact{}, &OversizeError{Path: dest, Size: info.Size(), Limit: maxBytes}
	}

	return types.AudioArtifact{
		Path:     dest,
		Duration: chunk.Seconds(),
		Size:     info.Size(),
		Encoding: src.Encoding,
	}, nil
}
