package analysis

import "smashcoach/internal/feedback"

// uploadResponse is the upload endpoint's 2xx body. Depending on server
// deployment the result either arrives inline (synchronous variant) or the
// body only acknowledges that processing started.
type uploadResponse struct {
	Message  string            `json:"message,omitempty"`
	Filename string            `json:"filename,omitempty"`
	Status   string            `json:"status,omitempty"`
	Feedback *feedback.Payload `json:"feedback,omitempty"`
	GifURL   string            `json:"gifUrl,omitempty"`
}

// resultsEnvelope is the polling endpoint's 200 body: the feedback fields
// inline, plus a status discriminator.
type resultsEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	feedback.Payload
}

// errorResponse covers the two error body shapes the server emits.
type errorResponse struct {
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// statusResponse is the lightweight processing-state probe body.
type statusResponse struct {
	Status string  `json:"status"`
	Error  *string `json:"error"`
}

// UploadResult reports the outcome of a successful upload request.
type UploadResult struct {
	// Completed is set when the server answered with the full feedback
	// payload inline; no polling is required.
	Completed bool

	// Payload is present only when Completed is true.
	Payload *feedback.Payload

	// Message is the server's acknowledgement text, if any.
	Message string
}

// PollResult classifies one status query against a live job.
type PollResult struct {
	// Pending means the server accepted the job but has no result yet.
	Pending bool

	// Payload is present when the job completed.
	Payload *feedback.Payload
}

// ServiceStatus is the server's own processing phase as reported by the
// status endpoint: idle, uploading, processing, completed or failed.
type ServiceStatus struct {
	Status string
	Error  string
}
