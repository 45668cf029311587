package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg slices audio ranges via stream copy, so chunk extraction never
// re-encodes and stays fast.
type FFmpeg struct {
	Bin string
}

func NewFFmpeg(bin string) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{Bin: bin}
}

func (f *FFmpeg) CheckBinary() error {
	if _, err := exec.LookPath(f.Bin); err != nil {
		return fmt.Errorf("ffmpeg not found (%s): install it or set tools.ffmpeg: %w", f.Bin, err)
	}
	return nil
}

// Slice writes the [start, end) range of src to dest.
func (f *FFmpeg) Slice(ctx context.Context, src string, start, end float64, dest string) error {
	cmd := exec.CommandContext(ctx, f.Bin,
		"-y", "-v", "error",
		"-i", src,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-acodec", "copy",
		dest,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg slice [%s, %s) of %s: %w: %s", formatSeconds(start), formatSeconds(end), src, err, msg)
		}
		return fmt.Errorf("ffmpeg slice [%s, %s) of %s: %w", formatSeconds(start), formatSeconds(end), src, err)
	}
	return nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
