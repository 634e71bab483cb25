package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"smashcoach/internal/emoji"
)

var statusServer string

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the analysis service status",
		Long: `Query the analysis service for its current processing state.

Reports whether the service is reachable and whether an analysis slot is
busy, finished, or free.`,
		RunE: runStatus,
	}

	cmd.Flags().StringVarP(&statusServer, "server", "s", "", "analysis service base URL (overrides config)")

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := buildClient(GetGlobalConfig(), statusServer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}

	fmt.Printf("%s Service: %s\n", emoji.GetEmoji("success"), client.BaseURL())
	fmt.Printf("   Phase: %s\n", status.Status)
	if status.Error != "" {
		fmt.Printf("   Last error: %s\n", status.Error)
	}
	return nil
}
