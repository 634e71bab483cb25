package config

// SampleConfig returns a fully commented sample configuration file.
func SampleConfig() string {
	return `# smashcoach configuration
version: "1.0"

server:
  # Analysis service endpoint.
  base_url: "http://localhost:8000"
  # Timeout for status and result queries.
  timeout: 30s
  # Timeout for the video upload, which can carry large files.
  upload_timeout: 5m
  # Multipart form field carrying the video binary.
  upload_field: "video"

polling:
  # Wall-clock period between result queries.
  interval: 2s
  # Maximum number of queries before the job is declared timed out.
  max_attempts: 60

output:
  # Default output format: text, json or markdown.
  default_format: "text"
  # Color mode: auto, always or never.
  color_mode: "auto"
  # Verbose logging to stderr.
  verbose: false

storage:
  # Where downloaded comparison GIFs are cached.
  cache_dir: "~/.cache/smashcoach"

watch:
  # File suffixes the watch command submits.
  extensions: [".mp4", ".mov", ".webm", ".avi"]
  # How long a new file must stay quiet before it is uploaded.
  settle_delay: 2s
`
}

// MinimalSampleConfig returns a compact sample with only the settings most
// installations change.
func MinimalSampleConfig() string {
	return `# smashcoach configuration
version: "1.0"

server:
  base_url: "http://localhost:8000"

polling:
  interval: 2s
  max_attempts: 60

output:
  default_format: "text"
`
}
