package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// ErrAssetNotFound reports a 404 for the artifact URL, meaning no prebuilt
// binary was published for this version and platform.
var ErrAssetNotFound = errors.New("release asset not found")

// ProgressFunc is a callback for download progress
type ProgressFunc func(downloaded, total int64)

// Options control a download.
type Options struct {
	// Client performs the requests; http.DefaultClient when nil.
	Client *http.Client
	// Progress receives byte counts while the body streams; may be nil.
	Progress ProgressFunc
	// Retries is the number of extra attempts after a transient failure.
	// Client errors and cancellation never retry.
	Retries int
}

// Download fetches url into destPath. The body streams into a temporary
// file next to the destination and is renamed into place only on success,
// so destPath never holds a partial download.
func Download(ctx context.Context, url, destPath string, opts Options) error {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	attempts := opts.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "download cancelled")
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		done, err := fetchOnce(ctx, client, url, tmpFile, opts.Progress)
		if err == nil {
			if err := tmpFile.Close(); err != nil {
				return errors.Wrap(err, "failed to close temporary file")
			}
			if err := os.Rename(tmpPath, destPath); err != nil {
				return errors.Wrap(err, "failed to move downloaded file")
			}
			return nil
		}
		if done || ctx.Err() != nil {
			return err
		}
		lastErr = err
	}

	return errors.Wrapf(lastErr, "download failed after %d attempts", attempts)
}

// fetchOnce performs a single attempt. done reports a terminal outcome that
// must not retry, such as a client error.
func fetchOnce(ctx context.Context, client *http.Client, url string, tmpFile *os.File, progress ProgressFunc) (done bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return true, errors.Wrap(err, "failed to create request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return true, errors.Wrap(ErrAssetNotFound, url)
	case resp.StatusCode >= 500:
		return false, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	default:
		return true, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Rewind so a retried attempt overwrites the previous partial body
	if _, err := tmpFile.Seek(0, io.SeekStart); err != nil {
		return true, errors.Wrap(err, "failed to seek to beginning of file")
	}
	if err := tmpFile.Truncate(0); err != nil {
		return true, errors.Wrap(err, "failed to truncate file")
	}

	written, err := copyWithProgress(tmpFile, resp.Body, resp.ContentLength, progress)
	if err != nil {
		return false, err
	}
	if written == 0 {
		return false, errors.New("no content downloaded")
	}

	return false, nil
}

// copyWithProgress copies data and reports progress
func copyWithProgress(dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	var written int64
	buf := make([]byte, 32*1024) // 32KB buffer

	for {
		nr, readErr := src.Read(buf)
		if nr > 0 {
			nw, writeErr := dst.Write(buf[0:nr])
			if writeErr != nil {
				return written, writeErr
			}
			written += int64(nw)

			if progress != nil {
				progress(written, total)
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, readErr
		}
	}
}
