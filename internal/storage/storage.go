package storage

import (
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"channel-radio/internal/config"
)

// Client wraps a storage provider with the station's two recording areas:
// the drop bucket where raw show recordings land, and the archive bucket
// serving published recordings.
type Client struct {
	backend       Provider
	bucketDrop    string
	bucketArchive string
}

func New(cfg *config.Config) *Client {
	var backend Provider

	if cfg.Storage.Provider == "local" {
		backend = NewLocalProvider(cfg.Storage.LocalRoot)
	} else {
		// S3-compatible (AWS or Backblaze B2)
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Endpoint:         aws.String(cfg.Storage.Endpoint),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		backend = NewS3Provider(sess)
	}

	return &Client{
		backend:       backend,
		bucketDrop:    cfg.Storage.BucketDrop,
		bucketArchive: cfg.Storage.BucketArchive,
	}
}

// NewWithBackend is used by tests to run the client over a local provider.
func NewWithBackend(backend Provider, drop, archive string) *Client {
	return &Client{backend: backend, bucketDrop: drop, bucketArchive: archive}
}

// --- Drop area (raw recordings waiting to be published) ---

func (c *Client) ListDropFiles() ([]string, error) {
	keys, err := c.backend.List(c.bucketDrop, "")
	if err != nil {
		return nil, err
	}
	var audio []string
	for _, key := range keys {
		if strings.HasSuffix(key, ".mp3") {
			audio = append(audio, key)
		}
	}
	return audio, nil
}

func (c *Client) DownloadDropFile(key string) (*FileObject, error) {
	return c.backend.Get(c.bucketDrop, key)
}

func (c *Client) DeleteDropFile(key string) error {
	return c.backend.Delete(c.bucketDrop, key)
}

// --- Archive area (published recordings) ---

func (c *Client) UploadArchiveFile(key string, body io.ReadSeeker, contentType string) error {
	return c.backend.Put(c.bucketArchive, key, body, contentType)
}

func (c *Client) DownloadArchiveFile(key string) (*FileObject, error) {
	return c.backend.Get(c.bucketArchive, key)
}
