package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

var ErrTimeout = errors.New("workspace: file was not created in time")

type options struct {
	logger  *zap.Logger
	pattern string
}

var defaultOptions = options{
	logger:  zap.NewNop(),
	pattern: "*.pdf",
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithPattern replaces the "*.pdf" glob used by Clean.
func WithPattern(pattern string) Option {
	return func(opts *options) {
		opts.pattern = pattern
	}
}

// Cleaner removes the artifacts of a previous run from the output directory.
type Cleaner struct {
	options
	remove    func(string) error
	removeAll func(string) error
}

func NewCleaner(opts ...Option) *Cleaner {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Cleaner{
		options:   options,
		remove:    os.Remove,
		removeAll: os.RemoveAll,
	}
}

// Clean deletes every entry of dir matching the pattern and reports how many
// were removed. Files and symlinks are unlinked, directories removed with
// their content. A failure is logged and the remaining entries are still
// processed; a missing dir simply has no matches.
func (c *Cleaner) Clean(dir string) int {
	matches, err := filepath.Glob(filepath.Join(dir, c.pattern))
	if err != nil {
		c.logger.Error("bad clean pattern", zap.String("pattern", c.pattern), zap.Error(err))
		return 0
	}

	removed := 0
	for _, path := range matches {
		if err := c.removeEntry(path); err != nil {
			c.logger.Error("failed to delete", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	c.logger.Info("workspace cleaned", zap.String("dir", dir), zap.Int("removed", removed))
	return removed
}

func (c *Cleaner) removeEntry(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return c.removeAll(path)
	}
	return c.remove(path)
}

// WaitUntilCreated polls until path exists. It gives up after timeout with an
// error wrapping ErrTimeout, or when ctx is done.
func WaitUntilCreated(ctx context.Context, path string, timeout, interval time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%s: %w after %s", path, ErrTimeout, timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
