// Package miniostore sube fotos con el cliente nativo de MinIO.
package miniostore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"civic-grievances/internal/ports/photos"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint      string // host:port, sin esquema
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string

	Transport http.RoundTripper // tests
}

type Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("minio bucket required")
	}
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	if endpoint == "" {
		return nil, fmt.Errorf("minio endpoint required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
		Transport:    cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(client.EndpointURL().String(), "/") + "/" + cfg.Bucket
	}
	return &Store{client: client, bucket: cfg.Bucket, baseURL: base}, nil
}

func (s *Store) Upload(ctx context.Context, ownerHint string, f photos.File) (string, error) {
	key := photos.ObjectKey(ownerHint, f.Name)
	opts := minio.PutObjectOptions{ContentType: f.ContentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(f.Data), int64(len(f.Data)), opts); err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}
