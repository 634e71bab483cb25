package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"smashcoach/internal/config"
	"smashcoach/internal/feedback"
	"smashcoach/internal/session"
)

func validPayload() *feedback.Payload {
	return &feedback.Payload{
		OverallScore:     81,
		InjuryRisk:       feedback.RiskLow,
		PositiveFeedback: "Clean hitting posture.",
		Summary:          "Strong session overall.",
	}
}

func TestIsCandidateEvent(t *testing.T) {
	extensions := []string{".mp4", ".mov"}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "new mp4 file",
			event: fsnotify.Event{Name: "/videos/smash.mp4", Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "write to mov file",
			event: fsnotify.Event{Name: "/videos/rally.MOV", Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "non-video extension",
			event: fsnotify.Event{Name: "/videos/notes.txt", Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "removal of video file",
			event: fsnotify.Event{Name: "/videos/smash.mp4", Op: fsnotify.Remove},
			want:  false,
		},
		{
			name:  "chmod only",
			event: fsnotify.Event{Name: "/videos/smash.mp4", Op: fsnotify.Chmod},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCandidateEvent(tt.event, extensions); got != tt.want {
				t.Errorf("isCandidateEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestBuildClient_ServerOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = "http://config-host:8000"

	client, err := buildClient(cfg, "")
	if err != nil {
		t.Fatalf("buildClient() error = %v", err)
	}
	if got := client.BaseURL().Host; got != "config-host:8000" {
		t.Errorf("config base URL not applied, got host %q", got)
	}

	client, err = buildClient(cfg, "http://flag-host:9000")
	if err != nil {
		t.Fatalf("buildClient() with override error = %v", err)
	}
	if got := client.BaseURL().Host; got != "flag-host:9000" {
		t.Errorf("flag override not applied, got host %q", got)
	}
}

func TestBuildController_OptionPrecedence(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Polling.Interval = 3 * time.Second
	cfg.Polling.MaxAttempts = 40

	client, err := buildClient(cfg, "")
	if err != nil {
		t.Fatalf("buildClient() error = %v", err)
	}

	ctrl := buildController(client, cfg, 0, 0)
	if opts := ctrl.Options(); opts.PollInterval != 3*time.Second || opts.MaxPollAttempts != 40 {
		t.Errorf("config polling options not applied: %+v", opts)
	}

	ctrl = buildController(client, cfg, 500*time.Millisecond, 10)
	if opts := ctrl.Options(); opts.PollInterval != 500*time.Millisecond || opts.MaxPollAttempts != 10 {
		t.Errorf("flag polling overrides not applied: %+v", opts)
	}
}

// A rejected upload must surface the server's own message, not the
// client error taxonomy rendering.
func TestPlainAnalysis_ServerMessageVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upload" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail": "file too large"}`))
		}
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("synthetic video bytes"), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	file, err := session.Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	cfg := config.DefaultConfig()
	client, err := buildClient(cfg, server.URL)
	if err != nil {
		t.Fatalf("buildClient() error = %v", err)
	}
	ctrl := buildController(client, cfg, 10*time.Millisecond, 5)
	if err := ctrl.Select(file); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	err = runPlainAnalysis(context.Background(), ctrl, client, "json")
	if err == nil {
		t.Fatal("Expected the rejected upload to fail the run")
	}
	if err.Error() != "file too large" {
		t.Errorf("Expected the server message verbatim, got %q", err.Error())
	}
}

func TestWriteReport_ToFile(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "report.json")

	oldOutputFile := analyzeOutputFile
	analyzeOutputFile = outFile
	defer func() { analyzeOutputFile = oldOutputFile }()

	payload := validPayload()
	if err := writeReport(payload, "json"); err != nil {
		t.Fatalf("writeReport() error = %v", err)
	}

	if !fileExists(outFile) {
		t.Errorf("report file was not written to %s", outFile)
	}
}
