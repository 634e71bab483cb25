package session

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotAVideo is returned when a candidate's media type is not video/*.
var ErrNotAVideo = errors.New("selected file is not a video")

// ErrNoFileSelected is returned when submit is called with no selection.
var ErrNoFileSelected = errors.New("no video selected")

// SelectedFile describes one user-selected video candidate.
type SelectedFile struct {
	Name      string
	SizeBytes int64
	MimeType  string

	// Path locates the bytes on disk; the controller reads it at submit
	// time so a selection stays cheap.
	Path string
}

// IsVideo reports whether the candidate's media type is acceptable.
func (f *SelectedFile) IsVideo() bool {
	return strings.HasPrefix(f.MimeType, "video/")
}

// Inspect builds a selection candidate from a file on disk. The media type
// comes from the extension, with a content sniff as fallback for files
// named without one.
func Inspect(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("cannot read candidate file: %w", err)
	}
	if info.IsDir() {
		return SelectedFile{}, fmt.Errorf("%s is a directory, not a video file", path)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType, err = sniffContentType(path)
		if err != nil {
			return SelectedFile{}, err
		}
	}

	return SelectedFile{
		Name:      filepath.Base(path),
		SizeBytes: info.Size(),
		MimeType:  mimeType,
		Path:      path,
	}, nil
}

// sniffContentType reads the first 512 bytes and lets net/http classify them.
func sniffContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open candidate file: %w", err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return "", fmt.Errorf("cannot sniff candidate file: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
