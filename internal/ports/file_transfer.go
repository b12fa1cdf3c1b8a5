package ports

import "context"

// FileTransfer moves documents in and out of envelopes.
type FileTransfer interface {
	// Download saves the file at fileURL as destDir/filename and returns the
	// SHA-256 of the written bytes.
	Download(ctx context.Context, fileURL, destDir, filename string) (sha256hex string, err error)
	// Upload adds the local file at path as a document in the envelope.
	Upload(ctx context.Context, envelopeURL, path string) error
}
