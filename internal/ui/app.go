// Package ui implements the interactive terminal frontend over the
// session controller.
package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"smashcoach/internal/session"
)

// Model drives the submission TUI. It owns no session state of its own;
// everything it renders comes from controller snapshots.
type Model struct {
	ctx  context.Context
	ctrl *session.Controller
	file session.SelectedFile

	snap   session.Snapshot
	width  int
	height int
	frame  int
	ready  bool

	quitting bool
	notice   string
}

// NewModel creates a model that will submit the given selection on start.
func NewModel(ctx context.Context, ctrl *session.Controller, file session.SelectedFile) *Model {
	return &Model{
		ctx:  ctx,
		ctrl: ctrl,
		file: file,
		snap: ctrl.Snapshot(),
	}
}

// Init kicks off the submission and starts listening for snapshots.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		waitForSnapshot(m.ctrl.Snapshots()),
		submitCommand(m.ctx, m.ctrl),
		spinnerTick(),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.snap = msg.snap
		return m, waitForSnapshot(m.ctrl.Snapshots())

	case snapshotsClosedMsg:
		return m, nil

	case submitFinishedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = ""
		}

	case spinnerTickMsg:
		m.frame++
		return m, spinnerTick()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.ctrl.Reset()
		return m, tea.Quit

	case "r":
		m.notice = ""
		m.ctrl.Reset()
		return m, nil

	case "enter":
		return m.resubmit()
	}

	return m, nil
}

// resubmit replays the original selection. From a terminal state this
// means reset first, since the controller refuses to submit over a
// finished analysis.
func (m *Model) resubmit() (tea.Model, tea.Cmd) {
	if m.snap.State.Terminal() {
		m.ctrl.Reset()
	}
	if err := m.ctrl.Select(m.file); err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	return m, submitCommand(m.ctx, m.ctrl)
}

// Run starts the TUI and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, ctrl *session.Controller, file session.SelectedFile, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, ctrl, file), opts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
