package ui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"smashcoach/internal/analysis"
	"smashcoach/internal/session"
)

func newViewModel(t *testing.T) *Model {
	t.Helper()

	client, err := analysis.New(analysis.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	ctrl := session.NewController(client, session.DefaultOptions(), nil)

	m := NewModel(context.Background(), ctrl, session.SelectedFile{Name: "clip.mp4"})
	m.ready = true
	m.width = 80
	m.height = 24
	return m
}

// A failed analysis shows the server's own message, never the internal
// error taxonomy rendering.
func TestViewFailure_ShowsServerMessage(t *testing.T) {
	m := newViewModel(t)
	m.snap = session.Snapshot{
		State: session.StateFailed,
		Err:   analysis.NewHTTPError(analysis.ErrTypeSubmission, "file too large", http.StatusInternalServerError),
	}

	out := m.View()
	if !strings.Contains(out, "file too large") {
		t.Errorf("failure view should carry the server message, got:\n%s", out)
	}
	if strings.Contains(out, "type=") || strings.Contains(out, "status=") {
		t.Errorf("failure view should not leak the error taxonomy, got:\n%s", out)
	}
}

// Cancelling the surrounding context must tear the program down rather
// than leaving the terminal in the alternate screen.
func TestRun_ContextCancellation(t *testing.T) {
	client, err := analysis.New(analysis.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	ctrl := session.NewController(client, session.DefaultOptions(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = Run(ctx, ctrl, session.SelectedFile{Name: "clip.mp4"},
		tea.WithoutRenderer(), tea.WithInput(strings.NewReader("")))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled from a cancelled run, got %v", err)
	}
}

func TestViewProcessing_ShowsAttemptCount(t *testing.T) {
	m := newViewModel(t)
	m.snap = session.Snapshot{State: session.StateProcessing, Attempts: 7}

	out := m.View()
	if !strings.Contains(out, "7/60") {
		t.Errorf("processing view should show attempts against the ceiling, got:\n%s", out)
	}
}
