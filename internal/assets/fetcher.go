// Package assets downloads the comparison GIFs referenced by a completed
// analysis. The server reuses the same two well-known asset names for
// every job, so each fetch carries a cache-busting token tied to the
// submission that produced it.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"smashcoach/internal/analysis"
)

// Well-known asset names served by the analysis service.
const (
	ProShotGIF   = "proshot.gif"
	UserShotGIF  = "badminton_shot_user_video.gif"
	bustParam    = "v"
	fetchTimeout = 60 * time.Second
)

// Fetcher downloads comparison assets into a local cache directory.
type Fetcher struct {
	client   *http.Client
	baseURL  *url.URL
	cacheDir string
}

// NewFetcher creates a fetcher rooted at the service base URL.
func NewFetcher(baseURL *url.URL, cacheDir string) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: fetchTimeout},
		baseURL:  baseURL,
		cacheDir: cacheDir,
	}
}

// NewBustToken mints a fresh cache-busting token for one submission.
func NewBustToken() string {
	return uuid.NewString()
}

// Fetch downloads one asset reference (absolute, or relative to the
// service base URL) and returns the local path. The bust token is appended
// as a query parameter so a re-fetch after a new submission can never be
// satisfied by a stale cached image from a different job.
func (f *Fetcher) Fetch(ctx context.Context, ref, bustToken string) (string, error) {
	target, err := f.resolve(ref, bustToken)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return "", analysis.NewClientErrorWithCause(analysis.ErrTypeInternal, "failed to create asset request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", analysis.NewClientErrorWithCause(analysis.ErrTypeNetwork, "could not fetch comparison asset", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", analysis.NewHTTPError(analysis.ErrTypeNetwork,
			fmt.Sprintf("asset fetch failed with status %d", resp.StatusCode), resp.StatusCode)
	}

	if err := os.MkdirAll(f.cacheDir, 0o750); err != nil {
		return "", fmt.Errorf("cannot create cache directory: %w", err)
	}

	local := filepath.Join(f.cacheDir, localName(target, bustToken))
	out, err := os.CreateTemp(f.cacheDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("cannot create download file: %w", err)
	}
	tmp := out.Name()

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return "", analysis.NewClientErrorWithCause(analysis.ErrTypeNetwork, "asset download interrupted", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("cannot finish download file: %w", err)
	}
	if err := os.Rename(tmp, local); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("cannot place downloaded asset: %w", err)
	}

	return local, nil
}

// FetchPair downloads the user and pro comparison GIFs for one completed
// job, sharing a single bust token. Empty references are skipped.
func (f *Fetcher) FetchPair(ctx context.Context, userRef, proRef string) (userPath, proPath string, err error) {
	token := NewBustToken()

	if userRef != "" {
		userPath, err = f.Fetch(ctx, userRef, token)
		if err != nil {
			return "", "", err
		}
	}
	if proRef != "" {
		proPath, err = f.Fetch(ctx, proRef, token)
		if err != nil {
			return "", "", err
		}
	}
	return userPath, proPath, nil
}

// resolve turns an asset reference into an absolute URL with the bust
// token applied.
func (f *Fetcher) resolve(ref, bustToken string) (*url.URL, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, analysis.NewClientErrorWithCause(analysis.ErrTypeValidation, "invalid asset reference", err)
	}
	target := f.baseURL.ResolveReference(parsed)

	query := target.Query()
	query.Set(bustParam, bustToken)
	target.RawQuery = query.Encode()
	return target, nil
}

// localName derives a stable on-disk name from the asset and its token,
// so assets from different submissions never collide.
func localName(target *url.URL, bustToken string) string {
	base := filepath.Base(target.Path)
	if base == "." || base == "/" || base == "" {
		base = "asset.gif"
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%s%s", base[:len(base)-len(ext)], bustToken, ext)
}
