// Package workspace manages the scratch directory a pipeline run works in.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const dirPrefix = "youtube_transcribe_"

// Workspace is the scratch area for one pipeline run. The download and every
// chunk file live here until Cleanup.
type Workspace struct {
	// RunID tags the directory and the run's log lines.
	RunID string
	// Dir is the scratch directory.
	Dir string
}

// New creates a run-scoped scratch directory under the system temp dir.
func New() (*Workspace, error) {
	runID := uuid.NewString()
	dir := filepath.Join(os.TempDir(), dirPrefix+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{RunID: runID, Dir: dir}, nil
}

// Cleanup removes the scratch directory and everything in it. It refuses to
// touch a directory that does not carry the workspace prefix, so a
// misconfigured path can never delete user data.
func (w *Workspace) Cleanup() error {
	if !strings.HasPrefix(filepath.Base(w.Dir), dirPrefix) {
		return fmt.Errorf("refusing to remove %s: not a workspace directory", w.Dir)
	}
	return os.RemoveAll(w.Dir)
}

// MoveFile moves src into destDir, creating destDir as needed. Falls back to
// copy-and-delete when the rename crosses filesystems, which is the normal
// case for a temp dir on tmpfs.
func MoveFile(src, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination dir: %w", err)
	}
	dest := filepath.Join(destDir, filepath.Base(src))

	if err := os.Rename(src, dest); err == nil {
		return dest, nil
	}
	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("move %s to %s: %w", src, dest, err)
	}
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
