package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"smashcoach/internal/emoji"
)

var resetServer string

func newResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the analysis service slot",
		Long: `Ask the analysis service to discard its current job and any stored
result, freeing the slot for a fresh submission.

Useful when a previous run was interrupted and the service still reports
a stale analysis.`,
		RunE: runReset,
	}

	cmd.Flags().StringVarP(&resetServer, "server", "s", "", "analysis service base URL (overrides config)")

	return cmd
}

func runReset(cmd *cobra.Command, args []string) error {
	client, err := buildClient(GetGlobalConfig(), resetServer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Reset(ctx); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	fmt.Printf("%s Service slot cleared\n", emoji.GetEmoji("success"))
	return nil
}
