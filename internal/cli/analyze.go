package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"smashcoach/internal/analysis"
	"smashcoach/internal/feedback"
	"smashcoach/internal/formatter"
	"smashcoach/internal/session"
	"smashcoach/internal/ui"
)

var (
	analyzeServer      string
	analyzeInterval    time.Duration
	analyzeMaxAttempts int
	analyzeNoTUI       bool
	analyzeNoGIFs      bool
	analyzeOutputFile  string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Upload a smash video for form analysis",
		Long: `Upload a badminton smash recording to the analysis service and wait for
the coaching report.

The file must be a video (checked by extension, with a content sniff
fallback). Progress is polled at a fixed interval until the analysis
completes, fails, or the attempt ceiling is reached.

Examples:
  smashcoach analyze smash.mp4
  smashcoach analyze --no-tui --output json smash.mp4 > report.json
  smashcoach analyze --server http://coach.local:8000 smash.mov`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeServer, "server", "s", "", "analysis service base URL (overrides config)")
	cmd.Flags().DurationVar(&analyzeInterval, "interval", 0, "polling interval (overrides config)")
	cmd.Flags().IntVar(&analyzeMaxAttempts, "max-attempts", 0, "polling attempt ceiling (overrides config)")
	cmd.Flags().BoolVar(&analyzeNoTUI, "no-tui", false, "disable terminal UI, stream progress to stderr")
	cmd.Flags().BoolVar(&analyzeNoGIFs, "no-gifs", false, "skip downloading the comparison clips")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save report to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	// Config supplies the format when the flag is untouched.
	format := getOutputFormat()
	if !cmd.Flag("output").Changed && cfg.Output.DefaultFormat != "" {
		format = cfg.Output.DefaultFormat
	}

	file, err := session.Inspect(args[0])
	if err != nil {
		return err
	}

	client, err := buildClient(cfg, analyzeServer)
	if err != nil {
		return err
	}
	ctrl := buildController(client, cfg, analyzeInterval, analyzeMaxAttempts)

	if err := ctrl.Select(file); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !analyzeNoTUI {
		return ui.Run(ctx, ctrl, file)
	}

	return runPlainAnalysis(ctx, ctrl, client, format)
}

// runPlainAnalysis drives one submission without the TUI and renders the
// terminal snapshot with the selected formatter.
func runPlainAnalysis(ctx context.Context, ctrl *session.Controller, client *analysis.Client, format string) error {
	cfg := GetGlobalConfig()

	// Submission failures surface through the Failed snapshot below.
	go func() { _ = ctrl.Submit(ctx) }()

	final, err := watchSession(ctx, ctrl)
	if err != nil {
		return err
	}
	if final.State == session.StateFailed {
		// Show the server's own message, without the taxonomy prefix.
		if final.Err != nil {
			return errors.New(analysis.UserMessage(final.Err))
		}
		return errors.New("analysis failed")
	}
	if final.Result == nil {
		return errors.New("analysis finished without a result")
	}

	if !analyzeNoGIFs {
		fetchComparisonGIFs(ctx, client, cfg, final.Result)
	}

	return writeReport(final.Result, format)
}

// writeReport renders a completed payload with the given output format.
func writeReport(payload *feedback.Payload, format string) error {
	f, err := formatter.New(format, !noColor)
	if err != nil {
		return err
	}

	out, err := f.Format(feedback.Render(payload))
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if analyzeOutputFile != "" {
		if err := os.WriteFile(analyzeOutputFile, out, 0o600); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
		verbosef("Report saved to %s\n", analyzeOutputFile)
		return nil
	}

	fmt.Println(string(out))
	return nil
}
