package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"smashcoach/internal/analysis"
	"smashcoach/internal/assets"
	"smashcoach/internal/config"
	"smashcoach/internal/feedback"
	"smashcoach/internal/logger"
	"smashcoach/internal/session"
)

// cliLogger reports verbosity from the global flag so controller internals
// stay quiet by default.
var cliLogger = logger.NewWithCallback("cli", isVerbose)

// buildClient constructs the analysis client from config plus overrides.
func buildClient(cfg *config.Config, serverOverride string) (*analysis.Client, error) {
	clientCfg := analysis.DefaultConfig()
	clientCfg.BaseURL = cfg.Server.BaseURL
	if serverOverride != "" {
		clientCfg.BaseURL = serverOverride
	}
	if cfg.Server.Timeout > 0 {
		clientCfg.Timeout = cfg.Server.Timeout
	}
	if cfg.Server.UploadTimeout > 0 {
		clientCfg.UploadTimeout = cfg.Server.UploadTimeout
	}
	if cfg.Server.UploadField != "" {
		clientCfg.UploadField = cfg.Server.UploadField
	}

	client, err := analysis.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}
	return client, nil
}

// buildController wires a controller with polling options resolved from
// config and optional flag overrides.
func buildController(client *analysis.Client, cfg *config.Config, interval time.Duration, maxAttempts int) *session.Controller {
	opts := session.Options{
		PollInterval:    cfg.Polling.Interval,
		MaxPollAttempts: cfg.Polling.MaxAttempts,
	}
	if interval > 0 {
		opts.PollInterval = interval
	}
	if maxAttempts > 0 {
		opts.MaxPollAttempts = maxAttempts
	}
	return session.NewController(client, opts, cliLogger.WithComponent("session"))
}

// fetchComparisonGIFs downloads both comparison clips into the cache dir and
// rewrites the payload's asset references to the local paths. Failures leave
// the remote references in place; the report is still useful without clips.
func fetchComparisonGIFs(ctx context.Context, client *analysis.Client, cfg *config.Config, payload *feedback.Payload) {
	if payload == nil {
		return
	}

	fetcher := assets.NewFetcher(client.BaseURL(), config.ExpandPath(cfg.Storage.CacheDir))

	userRef := payload.UserGIF
	if userRef == "" {
		userRef = "/gifs/" + assets.UserShotGIF
	}
	proRef := payload.ProGIF
	if proRef == "" {
		proRef = "/gifs/" + assets.ProShotGIF
	}
	userPath, proPath, err := fetcher.FetchPair(ctx, userRef, proRef)
	if err != nil {
		verbosef("Warning: failed to fetch comparison clips: %v\n", err)
		return
	}

	payload.UserGIF = userPath
	payload.ProGIF = proPath
}

// watchSession streams controller snapshots to stderr until the session
// reaches a terminal state, then returns the final snapshot.
func watchSession(ctx context.Context, ctrl *session.Controller) (session.Snapshot, error) {
	for {
		select {
		case <-ctx.Done():
			ctrl.Reset()
			return ctrl.Snapshot(), ctx.Err()

		case snap, ok := <-ctrl.Snapshots():
			if !ok {
				return ctrl.Snapshot(), nil
			}
			reportProgress(snap)
			if snap.State.Terminal() {
				return snap, nil
			}
		}
	}
}

func reportProgress(snap session.Snapshot) {
	switch snap.State {
	case session.StateSubmitting:
		verbosef("Uploading %s...\n", snapFileName(snap))
	case session.StateProcessing:
		fmt.Fprintf(os.Stderr, "\rAnalyzing... (check %d)", snap.Attempts)
	case session.StateCompleted, session.StateFailed:
		fmt.Fprintln(os.Stderr)
	}
}

func snapFileName(snap session.Snapshot) string {
	if snap.File != nil {
		return snap.File.Name
	}
	return "video"
}
