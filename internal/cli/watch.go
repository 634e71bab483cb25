package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"smashcoach/internal/analysis"
	"smashcoach/internal/session"
)

var (
	watchServer      string
	watchSettleDelay time.Duration
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and analyze new recordings",
		Long: `Monitor a directory for new video files and submit each one for
analysis as it appears.

A file is submitted once it has settled (no writes for the settle delay),
so half-copied recordings are never uploaded. A new recording supersedes
any analysis still in flight. Press Ctrl+C to stop watching.

Examples:
  smashcoach watch ~/Videos/smash-sessions
  smashcoach watch --settle-delay 5s /mnt/camera`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&watchServer, "server", "s", "", "analysis service base URL (overrides config)")
	cmd.Flags().DurationVar(&watchSettleDelay, "settle-delay", 0, "quiet period before a new file is submitted (overrides config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cfg := GetGlobalConfig()

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target must be a directory: %s", dir)
	}

	settle := cfg.Watch.SettleDelay
	if watchSettleDelay > 0 {
		settle = watchSettleDelay
	}

	client, err := buildClient(cfg, watchServer)
	if err != nil {
		return err
	}
	ctrl := buildController(client, cfg, 0, 0)

	watcher, err := createWatcher(dir)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching directory: %s\n", dir)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return runWatchLoop(ctx, watcher, ctrl, cfg.Watch.Extensions, settle)
}

// createWatcher creates and configures a new file system watcher
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// runWatchLoop drives submissions from filesystem events. Write activity on
// a candidate file re-arms its settle timer; the timer firing means the file
// has been quiet long enough to upload.
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, ctrl *session.Controller, extensions []string, settle time.Duration) error {
	settled := make(chan string, 8)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nStopping watch...\n")
			}
			ctrl.Reset()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isCandidateEvent(event, extensions) {
				continue
			}
			path := event.Name
			if t, exists := timers[path]; exists {
				t.Reset(settle)
				continue
			}
			timers[path] = time.AfterFunc(settle, func() {
				select {
				case settled <- path:
				case <-ctx.Done():
				}
			})

		case path := <-settled:
			if t, exists := timers[path]; exists {
				t.Stop()
				delete(timers, path)
			}
			submitWatched(ctx, ctrl, path)

		case snap, ok := <-ctrl.Snapshots():
			if !ok {
				return nil
			}
			handleWatchSnapshot(ctrl, snap)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// isCandidateEvent reports whether an event names a video file worth
// tracking. Only create and write events matter; removes and renames just
// mean the file went away.
func isCandidateEvent(event fsnotify.Event, extensions []string) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// submitWatched uploads one settled file. A recording still in flight is
// superseded; its late responses are discarded by the controller.
func submitWatched(ctx context.Context, ctrl *session.Controller, path string) {
	file, err := session.Inspect(path)
	if err != nil {
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
		}
		return
	}

	if ctrl.State().Terminal() {
		ctrl.Reset()
	}
	if err := ctrl.Select(file); err != nil {
		fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
		return
	}

	fmt.Fprintf(os.Stderr, "New recording: %s\n", filepath.Base(path))
	// Submission failures surface through the Failed snapshot.
	go func() { _ = ctrl.Submit(ctx) }()
}

// handleWatchSnapshot prints progress and renders finished reports, then
// resets so the next recording starts clean.
func handleWatchSnapshot(ctrl *session.Controller, snap session.Snapshot) {
	switch snap.State {
	case session.StateProcessing:
		fmt.Fprintf(os.Stderr, "\rAnalyzing %s... (check %d)", snapFileName(snap), snap.Attempts)

	case session.StateCompleted:
		fmt.Fprintln(os.Stderr)
		if snap.Result != nil {
			if err := writeReport(snap.Result, getOutputFormat()); err != nil {
				fmt.Fprintf(os.Stderr, "failed to render report: %v\n", err)
			}
		}
		ctrl.Reset()

	case session.StateFailed:
		fmt.Fprintln(os.Stderr)
		if snap.Err != nil {
			fmt.Fprintf(os.Stderr, "Analysis of %s failed: %s\n", snapFileName(snap), analysis.UserMessage(snap.Err))
		}
		ctrl.Reset()
	}
}
