package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"smashcoach/internal/session"
)

// Common message types shared across the TUI
type snapshotMsg struct {
	snap session.Snapshot
}

type snapshotsClosedMsg struct{}

type submitFinishedMsg struct {
	err error
}

type spinnerTickMsg struct{}

// waitForSnapshot blocks on the controller's snapshot stream and turns the
// next update into a tea message.
func waitForSnapshot(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return snapshotsClosedMsg{}
		}
		return snapshotMsg{snap: snap}
	}
}

// submitCommand runs the submission on the controller. The controller does
// its own state publishing; the returned message only carries the immediate
// rejection, if any.
func submitCommand(ctx context.Context, ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return submitFinishedMsg{err: ctrl.Submit(ctx)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}
