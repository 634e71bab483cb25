package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_New(t *testing.T) {
	client, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	if client.BaseURL().String() != "http://localhost:8000" {
		t.Errorf("Unexpected base URL: %s", client.BaseURL())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"missing base URL", func(c *Config) { c.BaseURL = "" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"zero upload timeout", func(c *Config) { c.UploadTimeout = 0 }, true},
		{"missing upload field", func(c *Config) { c.UploadField = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Upload_Accepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("Expected path '/upload', got '%s'", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got '%s'", r.Method)
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("Failed to parse multipart form: %v", err)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Fatalf("Expected form field 'video': %v", err)
		}
		defer func() { _ = file.Close() }()

		if header.Filename != "clip.mp4" {
			t.Errorf("Expected filename 'clip.mp4', got '%s'", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "fake video bytes" {
			t.Errorf("Upload body not carried through, got %q", content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message":  "Video uploaded successfully. Processing started.",
			"filename": "smash_video_example.mp4",
			"status":   "processing",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.Upload(context.Background(), "clip.mp4", strings.NewReader("fake video bytes"))
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	if result.Completed {
		t.Error("Expected asynchronous acknowledgement, got inline completion")
	}
	if result.Message == "" {
		t.Error("Expected server acknowledgement message")
	}
}

func TestClient_Upload_ImmediateCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"feedback": {"overall_score": 82, "injury_risk": "LOW", "summary": "Nice swing."},
			"gifUrl": "/gifs/badminton_shot_user_video.gif"
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.Upload(context.Background(), "clip.mp4", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	if !result.Completed {
		t.Fatal("Expected inline completion")
	}
	if result.Payload.OverallScore != 82 {
		t.Errorf("Expected score 82, got %d", result.Payload.OverallScore)
	}
	if result.Payload.UserGIF != "/gifs/badminton_shot_user_video.gif" {
		t.Errorf("Expected gifUrl to be mapped onto the payload, got %q", result.Payload.UserGIF)
	}
}

func TestClient_Upload_ServerMessagePreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "file too large"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Upload(context.Background(), "clip.mp4", strings.NewReader("x"))
	if err == nil {
		t.Fatal("Expected upload error")
	}
	if !IsSubmissionError(err) {
		t.Errorf("Expected submission error, got type %s", TypeOf(err))
	}
	if UserMessage(err) != "file too large" {
		t.Errorf("Expected server message verbatim, got %q", UserMessage(err))
	}
}

func TestClient_Upload_GenericFailureMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Upload(context.Background(), "clip.mp4", strings.NewReader("x"))
	if err == nil {
		t.Fatal("Expected upload error")
	}
	if UserMessage(err) != "video upload failed" {
		t.Errorf("Expected generic fallback message, got %q", UserMessage(err))
	}
}

func TestClient_Upload_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(t, server.URL)

	_, err := client.Upload(context.Background(), "clip.mp4", strings.NewReader("x"))
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if !IsSubmissionError(err) {
		t.Errorf("Expected submission error, got type %s", TypeOf(err))
	}
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Cause == nil {
		t.Error("Expected the transport cause to be preserved")
	}
}

func TestClient_Results_Completed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/results" {
			t.Errorf("Expected path '/results', got '%s'", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "completed",
			"overall_score": 82,
			"injury_risk": "LOW",
			"summary": "Solid form.",
			"userGif": "/gifs/badminton_shot_user_video.gif",
			"proGif": "/gifs/proshot.gif"
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.Results(context.Background())
	if err != nil {
		t.Fatalf("Failed to query results: %v", err)
	}
	if result.Pending {
		t.Error("Expected completed result, got pending")
	}
	if result.Payload == nil || result.Payload.OverallScore != 82 {
		t.Errorf("Payload not decoded: %+v", result.Payload)
	}
	if result.Payload.ProGIF != "/gifs/proshot.gif" {
		t.Errorf("Expected pro GIF reference, got %q", result.Payload.ProGIF)
	}
}

func TestClient_Results_Pending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status": "processing", "message": "Processing not complete yet"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.Results(context.Background())
	if err != nil {
		t.Fatalf("Failed to query results: %v", err)
	}
	if !result.Pending {
		t.Error("Expected pending result")
	}
	if result.Payload != nil {
		t.Error("Pending result must not carry a payload")
	}
}

func TestClient_Results_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error with detail", http.StatusInternalServerError, `{"error": "tips file missing"}`},
		{"not found", http.StatusNotFound, `{"error": "Pro GIF not found"}`},
		{"malformed completed body", http.StatusOK, `{"status": "completed", "overall_score": "NaN"`},
		{"out-of-range payload", http.StatusOK, `{"status": "completed", "overall_score": 250}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			_, err := client.Results(context.Background())
			if err == nil {
				t.Fatal("Expected polling error")
			}
			if !IsPollingError(err) {
				t.Errorf("Expected polling error, got type %s", TypeOf(err))
			}
		})
	}
}

func TestClient_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("Expected path '/status', got '%s'", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "processing", "error": null}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Failed to query status: %v", err)
	}
	if status.Status != "processing" {
		t.Errorf("Expected status 'processing', got '%s'", status.Status)
	}
	if status.Error != "" {
		t.Errorf("Expected empty error, got '%s'", status.Error)
	}
}

func TestClient_Reset(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reset" || r.Method != http.MethodPost {
			t.Errorf("Expected POST /reset, got %s %s", r.Method, r.URL.Path)
		}
		called = true
		_, _ = w.Write([]byte(`{"message": "State reset successfully"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	if err := client.Reset(context.Background()); err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}
	if !called {
		t.Error("Expected reset endpoint to be called")
	}
}

func TestClientError_Matching(t *testing.T) {
	err := NewHTTPError(ErrTypeSubmission, "file too large", http.StatusInternalServerError)

	if !errors.Is(err, &ClientError{Type: ErrTypeSubmission}) {
		t.Error("errors.Is should match on error type")
	}
	if errors.Is(err, &ClientError{Type: ErrTypePolling}) {
		t.Error("errors.Is must not match a different type")
	}
	if IsTimeoutError(err) {
		t.Error("Submission error misclassified as timeout")
	}
}

// newTestClient builds a client pointed at a test server.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.BaseURL = baseURL

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}
