package cdrclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Download saves the file at fileURL as destDir/filename, creating destDir
// if needed, and returns the SHA-256 of the written bytes. The transfer is
// bounded by ctx, not by the API timeout.
func (c *Client) Download(ctx context.Context, fileURL, destDir, filename string) (string, error) {
	const op = "cdrclient.download"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: fileURL, Err: err}
	}
	res, err := c.files.Do(req)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindRemote, Path: fileURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", remoteErr(op, fileURL, res.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: destDir, Err: err}
	}
	dest := filepath.Join(destDir, filename)
	f, err := os.Create(dest)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: dest, Err: err}
	}

	hash := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, hash), res.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return "", &domain.OpError{Op: op, Kind: domain.KindRemote, Path: fileURL, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: dest, Err: err}
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Upload streams the local file at path into the envelope as a new document.
func (c *Client) Upload(ctx context.Context, envelopeURL, path string) error {
	const op = "cdrclient.upload"

	f, err := os.Open(path)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: path, Err: err}
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	endpoint := strings.TrimRight(envelopeURL, "/") + "/manage_addDocument"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.files.Do(req)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindRemote, Path: endpoint, Err: err}
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode >= http.StatusBadRequest {
		return remoteErr(op, endpoint, res.StatusCode)
	}
	return nil
}
