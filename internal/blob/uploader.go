// Package blob uploads audio artifacts to Backblaze B2.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kurin/blazer/b2"

	"courtcast/internal/retry"
)

const contentType = "audio/mpeg"

// Uploader transfers a local artifact to durable remote storage and returns
// its public URL. An empty URL with a nil error means upload was skipped.
type Uploader interface {
	Upload(ctx context.Context, localPath, videoID string) (string, error)
}

// RemoteName returns the deterministic object key for a video's audio.
func RemoteName(videoID string) string {
	return "episodes/" + videoID + ".mp3"
}

// B2Uploader uploads artifacts to a Backblaze B2 bucket.
type B2Uploader struct {
	KeyID   string
	AppKey  string
	Bucket  string
	BaseURL string // public URL prefix, e.g. https://f000.backblazeb2.com/file/<bucket>

	// RetryConfig holds retry behavior configuration.
	RetryConfig retry.Config

	client *b2.Client
}

// NewB2Uploader creates an uploader for the given bucket. The client is
// authorized lazily on first upload so constructing one is cheap.
func NewB2Uploader(keyID, appKey, bucket, baseURL string) *B2Uploader {
	return &B2Uploader{
		KeyID:       keyID,
		AppKey:      appKey,
		Bucket:      bucket,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		RetryConfig: retry.DefaultConfig(),
	}
}

// Upload copies the local file to the bucket under episodes/<id>.mp3 and
// returns its public URL.
func (u *B2Uploader) Upload(ctx context.Context, localPath, videoID string) (string, error) {
	remote := RemoteName(videoID)

	err := retry.Do(ctx, u.RetryConfig, nil, func(ctx context.Context) error {
		if u.client == nil {
			client, err := b2.NewClient(ctx, u.KeyID, u.AppKey)
			if err != nil {
				return fmt.Errorf("blob: authorize: %w", err)
			}
			u.client = client
		}

		bucket, err := u.client.Bucket(ctx, u.Bucket)
		if err != nil {
			return fmt.Errorf("blob: bucket %s: %w", u.Bucket, err)
		}

		f, err := os.Open(localPath)
		if err != nil {
			return fmt.Errorf("blob: open %s: %w", localPath, err)
		}
		defer f.Close()

		w := bucket.Object(remote).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{
			ContentType: contentType,
		}))
		if _, err := io.Copy(w, f); err != nil {
			w.Close()
			return fmt.Errorf("blob: upload %s: %w", remote, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("blob: upload %s: %w", remote, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return u.BaseURL + "/" + remote, nil
}

// NopUploader skips uploads. Substituted when B2 credentials are absent;
// episodes then carry no audio URL and the local artifact is retained.
type NopUploader struct{}

func (NopUploader) Upload(context.Context, string, string) (string, error) {
	return "", nil
}
