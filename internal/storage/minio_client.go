package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"comicshare/internal/apperr"
	"comicshare/internal/config"
)

// Object describes a stored object returned by List.
type Object struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

type Storage interface {
	// Upload stores r under key and returns its public URL.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	List(ctx context.Context, prefix string) ([]Object, error)
	PresignedURL(ctx context.Context, key string) (string, error)
	PublicURL(key string) string
	Ping(ctx context.Context) error
}

type MinIOClient struct {
	client  *minio.Client
	bucket  string
	baseURL string
	expiry  time.Duration
	region  string
	log     *zap.Logger
}

func NewMinIOClient(cfg *config.Config, log *zap.Logger) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOClient{
		client:  client,
		bucket:  cfg.MinIO.BucketName,
		baseURL: publicBaseURL(cfg.MinIO),
		expiry:  cfg.MinIO.URLExpiry,
		region:  cfg.MinIO.Region,
		log:     log,
	}, nil
}

func publicBaseURL(cfg config.MinIO) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName)
}

// publicReadPolicy grants anonymous GetObject on the asset prefixes.
const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/covers/*", "arn:aws:s3:::%s/chapters/*", "arn:aws:s3:::%s/avatars/*", "arn:aws:s3:::%s/ads/*", "arn:aws:s3:::%s/user-comics/*"]
  }]
}`

// EnsureBucket creates the bucket when missing and applies the public-read policy.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
		}
		m.log.Info("created bucket", zap.String("bucket", m.bucket))
	}

	b := m.bucket
	policy := fmt.Sprintf(publicReadPolicy, b, b, b, b, b)
	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

func (m *MinIOClient) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.PutObject(ctx, m.bucket, key, r, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"uploaded-at": time.Now().UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorage, "failed to upload file", err)
	}

	m.log.Debug("object uploaded", zap.String("key", key), zap.Int64("size", size))
	return m.PublicURL(key), nil
}

func (m *MinIOClient) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to delete file", err)
	}
	return nil
}

func (m *MinIOClient) DeletePrefix(ctx context.Context, prefix string) error {
	objects := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true})

	var errs []error
	for rerr := range m.client.RemoveObjects(ctx, m.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("%s: %w", rerr.ObjectName, rerr.Err))
	}
	if len(errs) > 0 {
		return apperr.Wrap(apperr.ErrStorage, "failed to delete files", errors.Join(errs...))
	}
	return nil
}

func (m *MinIOClient) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, apperr.Wrap(apperr.ErrStorage, "failed to list files", obj.Err)
		}
		out = append(out, Object{
			Key:          obj.Key,
			URL:          m.PublicURL(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return out, nil
}

func (m *MinIOClient) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.expiry, url.Values{})
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorage, "failed to sign URL", err)
	}
	return u.String(), nil
}

func (m *MinIOClient) PublicURL(key string) string {
	return m.baseURL + "/" + key
}

func (m *MinIOClient) Ping(ctx context.Context) error {
	if _, err := m.client.BucketExists(ctx, m.bucket); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "object store unreachable", err)
	}
	return nil
}
