package transcription

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/abrocod/minerva/internal/logger"
)

// ClientConfig bounds the client's retry and sizing behavior.
type ClientConfig struct {
	// MaxAttempts is the total number of tries per file, first call included.
	MaxAttempts int
	// CallTimeout caps each individual provider call. Zero disables the cap.
	CallTimeout time.Duration
	// MaxBytes is the provider upload ceiling checked before any upload.
	MaxBytes int64
}

// Client wraps a Provider with the upload-size precheck and bounded retries.
type Client struct {
	provider Provider
	cfg      ClientConfig
	log      *logrus.Entry
}

func NewClient(provider Provider, cfg ClientConfig, log *logrus.Entry) *Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if log == nil {
		log = logger.New().WithField("module", "transcription")
	}
	return &Client{provider: provider, cfg: cfg, log: log}
}

// TranscribeFile submits one audio file and returns its transcript. Files over
// the upload ceiling never leave the machine; that is a planning bug, not a
// provider condition, so it fails immediately with ErrPayloadTooLarge.
func (c *Client) TranscribeFile(ctx context.Context, path, language string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat audio file: %w", err)
	}
	if c.cfg.MaxBytes > 0 && info.Size() > c.cfg.MaxBytes {
		return Result{}, fmt.Errorf("%w: %s is %d bytes, limit %d",
			ErrPayloadTooLarge, filepath.Base(path), info.Size(), c.cfg.MaxBytes)
	}

	log := c.log.WithField("file", filepath.Base(path))

	var result Result
	attempt := 0
	op := func() error {
		attempt++
		callCtx := ctx
		if c.cfg.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.cfg.CallTimeout)
			defer cancel()
		}
		res, err := c.provider.Transcribe(callCtx, Request{Path: path, Language: language})
		if err != nil {
			if !Retryable(err) {
				return backoff.Permanent(err)
			}
			log.WithError(err).WithField("attempt", attempt).Warn("transcription attempt failed, will retry")
			return err
		}
		result = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.MaxAttempts-1)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return Result{}, fmt.Errorf("transcribe %s after %d attempt(s): %w", filepath.Base(path), attempt, err)
	}

	log.WithField("attempts", attempt).WithField("segments", len(result.Segments)).Debug("transcription complete")
	return result, nil
}
