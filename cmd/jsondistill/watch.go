package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jsondistill/internal/logging"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		output   string
		debounce time.Duration
		flags    distillFlags
	)

	cmd := &cobra.Command{
		Use:   "watch INPUT",
		Short: "Re-distill a file every time it changes",
		Long: `Distill INPUT once, then again after every write. Bursts of writes are
collapsed into one run after the debounce interval. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := resolveInput(args[0])
			if err != nil {
				return err
			}
			out, err := resolveOutput(output, in)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, opts.configPath, cmd.ErrOrStderr(), opts.quiet)
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("debounce") {
				debounce = a.cfg.Watch.Debounce.Duration()
			}
			dopts := flags.options(cmd.Flags(), a.defaults())
			p := newProgress(cmd.ErrOrStderr(), opts.quiet)

			w := &fileWatcher{
				path:     in,
				debounce: debounce,
				logger:   a.logger.Named("watch"),
				run: func(ctx context.Context) error {
					_, err := distillFile(ctx, a.svc, in, out, dopts, p)
					return err
				},
			}
			p.printf("Watching %s for changes (Ctrl+C to stop)", in)
			return w.Watch(ctx)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input stem>_distilled.json in the working directory)")
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "quiet period before re-running")
	flags.register(cmd.Flags())
	return cmd
}

// fileWatcher calls run once at start and again whenever path settles
// after a write.
type fileWatcher struct {
	path     string
	debounce time.Duration
	run      func(context.Context) error
	logger   *logging.Logger
}

// Watch blocks until ctx is canceled. Failed runs are logged and do not
// stop the watch, since a file is often invalid mid-edit.
func (w *fileWatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	defer watcher.Close()

	// Editors often save by renaming a temp file over the original, which
	// drops a watch on the file itself.
	target := filepath.Clean(w.path)
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.runOnce(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.runOnce(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "file watcher error", zap.Error(err))
		}
	}
}

func (w *fileWatcher) runOnce(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		w.logger.Warn(ctx, "distill run failed", zap.String("path", w.path), zap.Error(err))
	}
}
