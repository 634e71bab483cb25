// Package session owns the client-side job lifecycle: file selection,
// submission, status polling and the single view state exposed to the
// presentation layer. The controller is the only writer of that state;
// every asynchronous outcome is identity-checked against the live job
// before it is applied, so a superseded job can never surface a result.
package session

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"smashcoach/internal/analysis"
	"smashcoach/internal/feedback"
	"smashcoach/internal/logger"
)

// ErrSubmitUnavailable is returned when submit is called from a terminal
// state; reset is the only way out of Completed or Failed.
var ErrSubmitUnavailable = errors.New("analysis already finished, reset before submitting again")

// ViewState is the single state shown by the presentation layer.
type ViewState string

const (
	StateIdle       ViewState = "idle"
	StateSelecting  ViewState = "selecting"
	StateSubmitting ViewState = "submitting"
	StateProcessing ViewState = "processing"
	StateCompleted  ViewState = "completed"
	StateFailed     ViewState = "failed"
)

// Terminal reports whether only reset leaves this state.
func (s ViewState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Options tune the polling behavior.
type Options struct {
	// PollInterval is the wall-clock period between status queries.
	PollInterval time.Duration

	// MaxPollAttempts bounds the number of status queries issued for one
	// job before the controller declares a timeout.
	MaxPollAttempts int
}

// DefaultOptions returns the reference polling parameters.
func DefaultOptions() Options {
	return Options{
		PollInterval:    2 * time.Second,
		MaxPollAttempts: 60,
	}
}

// Snapshot is an immutable view of the session handed to subscribers.
type Snapshot struct {
	State ViewState

	// File is the current selection, nil in Idle.
	File *SelectedFile

	// JobID identifies the live job while Processing.
	JobID string

	// Attempts counts status queries issued for the live job.
	Attempts int

	// Result is present in Completed.
	Result *feedback.Payload

	// Err is the terminal failure in Failed.
	Err error

	// Notice is a non-fatal validation message; it never changes State.
	Notice string
}

// job is the handle for one submission. Its id is minted client-side so
// late responses can be matched against the job they belong to even though
// the server itself tracks a single implicit slot.
type job struct {
	id       string
	cancel   context.CancelFunc
	attempts int
}

// Controller is the view state machine tying selection, submission,
// polling and rendering together.
type Controller struct {
	client *analysis.Client
	opts   Options
	log    *logger.Logger

	mu       sync.Mutex
	state    ViewState
	file     *SelectedFile
	current  *job
	result   *feedback.Payload
	failure  error
	notice   string
	attempts int

	snapshots chan Snapshot

	// open is swapped in tests to feed synthetic video bytes.
	open func(string) (io.ReadCloser, error)

	// serverReset is invoked best-effort on reset; nil disables it.
	serverReset func(context.Context) error
}

// NewController creates a controller in Idle.
func NewController(client *analysis.Client, opts Options, log *logger.Logger) *Controller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	if opts.MaxPollAttempts <= 0 {
		opts.MaxPollAttempts = DefaultOptions().MaxPollAttempts
	}
	if log == nil {
		log = logger.New("session", nil)
	}

	c := &Controller{
		client:    client,
		opts:      opts,
		log:       log,
		state:     StateIdle,
		snapshots: make(chan Snapshot, 64),
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	if client != nil {
		c.serverReset = client.Reset
	}
	return c
}

// Snapshots returns the channel of state snapshots. Single consumer; the
// oldest snapshot is dropped when the consumer falls behind, so the latest
// state is always deliverable.
func (c *Controller) Snapshots() <-chan Snapshot {
	return c.snapshots
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Options returns the polling parameters the controller runs with.
func (c *Controller) Options() Options {
	return c.opts
}

// State returns the current view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Select validates a candidate file. An invalid candidate records a notice
// and leaves any previously accepted selection untouched. A valid candidate
// replaces the selection, clears any previous result or error, and
// invalidates a live job so its late responses are discarded.
func (c *Controller) Select(candidate SelectedFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !candidate.IsVideo() {
		c.notice = ErrNotAVideo.Error()
		c.log.Debug("rejected selection", "name", candidate.Name, "mime", candidate.MimeType)
		c.publishLocked()
		return ErrNotAVideo
	}

	c.cancelJobLocked()
	c.file = &candidate
	c.result = nil
	c.failure = nil
	c.notice = ""
	c.attempts = 0
	c.state = StateSelecting

	c.log.Info("selected video", "name", candidate.Name, "bytes", candidate.SizeBytes)
	c.publishLocked()
	return nil
}

// Submit uploads the current selection. Exactly one POST is issued per
// call; a failed upload is terminal for the attempt and is never retried
// automatically. While Processing, a new Submit supersedes the live job.
// From Completed or Failed only Reset can restart the cycle.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()

	if c.state.Terminal() {
		c.mu.Unlock()
		return ErrSubmitUnavailable
	}
	if c.file == nil {
		c.notice = ErrNoFileSelected.Error()
		c.publishLocked()
		c.mu.Unlock()
		return ErrNoFileSelected
	}

	// Supersede any live job before its replacement goes on the wire.
	c.cancelJobLocked()

	submission := &job{id: uuid.NewString()}
	c.current = submission
	c.result = nil
	c.failure = nil
	c.notice = ""
	c.attempts = 0
	c.state = StateSubmitting
	file := *c.file
	c.publishLocked()
	c.mu.Unlock()

	video, err := c.open(file.Path)
	if err != nil {
		wrapped := analysis.NewClientErrorWithCause(analysis.ErrTypeSubmission, "cannot read selected video", err)
		c.applyUploadFailure(submission.id, wrapped)
		return wrapped
	}
	defer func() { _ = video.Close() }()

	c.log.Info("uploading video", "name", file.Name, "job", submission.id)
	result, err := c.client.Upload(ctx, file.Name, video)
	if err != nil {
		c.applyUploadFailure(submission.id, err)
		return err
	}

	if result.Completed {
		c.applyCompleted(submission.id, result.Payload)
		return nil
	}

	return c.beginPolling(ctx, submission.id)
}

// Reset returns the session to Idle from any state: the live poller is
// cancelled, file, job, result and error state are cleared, and no further
// scheduled poll can fire. Idempotent. The server-side state reset is fired
// best-effort and never blocks the local transition.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.cancelJobLocked()
	c.file = nil
	c.result = nil
	c.failure = nil
	c.notice = ""
	c.attempts = 0
	c.state = StateIdle
	reset := c.serverReset
	c.publishLocked()
	c.mu.Unlock()

	if reset != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := reset(ctx); err != nil {
				c.log.Debug("server-side reset failed", "error", err)
			}
		}()
	}
}

// applyUploadFailure records a failed upload, unless the submission was
// superseded while the request was in flight.
func (c *Controller) applyUploadFailure(jobID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isLiveLocked(jobID) {
		c.log.Debug("dropping stale upload failure", "job", jobID)
		return
	}

	c.current = nil
	c.failure = err
	c.state = StateFailed
	c.log.Warn("upload failed", "job", jobID, "error", err)
	c.publishLocked()
}

// applyCompleted records a finished analysis for the live job; results for
// superseded jobs are discarded here, never rendered.
func (c *Controller) applyCompleted(jobID string, payload *feedback.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isLiveLocked(jobID) {
		c.log.Debug("dropping stale result", "job", jobID)
		return
	}

	c.cancelJobLocked()
	c.result = payload
	c.state = StateCompleted
	c.log.Info("analysis completed", "job", jobID, "score", payload.OverallScore)
	c.publishLocked()
}

// applyTimeout records attempt-ceiling exhaustion for the live job.
func (c *Controller) applyTimeout(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isLiveLocked(jobID) {
		return
	}

	c.cancelJobLocked()
	c.failure = analysis.NewClientError(analysis.ErrTypeTimeout,
		"timed out waiting for analysis results")
	c.state = StateFailed
	c.log.Warn("polling ceiling reached", "job", jobID, "attempts", c.attempts)
	c.publishLocked()
}

// noteAttempt publishes poll progress for the live job.
func (c *Controller) noteAttempt(jobID string, attempt int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isLiveLocked(jobID) {
		return
	}
	c.current.attempts = attempt
	c.attempts = attempt
	c.publishLocked()
}

// isLiveLocked reports whether jobID is still the live job.
func (c *Controller) isLiveLocked(jobID string) bool {
	return c.current != nil && c.current.id == jobID
}

// cancelJobLocked stops the live poller, if any. After it returns no
// further scheduled query for that job will be issued, and any response
// already in flight fails the identity check on arrival.
func (c *Controller) cancelJobLocked() {
	if c.current == nil {
		return
	}
	if c.current.cancel != nil {
		c.current.cancel()
	}
	c.log.Debug("job invalidated", "job", c.current.id)
	c.current = nil
}

// snapshotLocked builds an immutable view of the current state.
func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    c.state,
		Attempts: c.attempts,
		Result:   c.result,
		Err:      c.failure,
		Notice:   c.notice,
	}
	if c.file != nil {
		f := *c.file
		snap.File = &f
	}
	if c.current != nil {
		snap.JobID = c.current.id
	}
	return snap
}

// publishLocked delivers the current snapshot, dropping the oldest queued
// one when the subscriber lags.
func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	for {
		select {
		case c.snapshots <- snap:
			return
		default:
		}
		select {
		case <-c.snapshots:
		default:
		}
	}
}
