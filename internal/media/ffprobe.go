package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFprobe reads media duration with ffprobe's JSON output.
type FFprobe struct {
	Bin string
}

func NewFFprobe(bin string) *FFprobe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFprobe{Bin: bin}
}

func (p *FFprobe) CheckBinary() error {
	if _, err := exec.LookPath(p.Bin); err != nil {
		return fmt.Errorf("ffprobe not found (%s): install ffmpeg or set tools.ffprobe: %w", p.Bin, err)
	}
	return nil
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns the duration of path in seconds.
func (p *FFprobe) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.Bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return 0, fmt.Errorf("ffprobe %s: %s", path, strings.TrimSpace(string(ee.Stderr)))
		}
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var parsed probeFormat
	if err := json.Unmarshal(out, &parsed); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(parsed.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", parsed.Format.Duration, err)
	}
	return dur, nil
}
