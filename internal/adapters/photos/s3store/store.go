// Package s3store sube fotos a un bucket compatible con S3 (AWS, MinIO, R2...).
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"civic-grievances/internal/ports/photos"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Config struct {
	Region          string
	Bucket          string
	Endpoint        string // opcional, p.ej. MinIO
	AccessKeyID     string // opcional; si falta se usa la cadena por defecto de AWS
	SecretAccessKey string
	PathStyle       bool
	PublicBaseURL   string // opcional, CDN delante del bucket

	HTTPClient *http.Client // tests
}

type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})

	return &Store{client: client, bucket: cfg.Bucket, baseURL: publicBase(cfg, region)}, nil
}

// publicBase arma la URL desde la que se sirven los objetos.
func publicBase(cfg Config, region string) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		ep := strings.TrimRight(cfg.Endpoint, "/")
		if cfg.PathStyle {
			return ep + "/" + cfg.Bucket
		}
		if u, err := url.Parse(ep); err == nil && u.Host != "" {
			return u.Scheme + "://" + cfg.Bucket + "." + u.Host
		}
		return ep + "/" + cfg.Bucket
	}
	return "https://" + cfg.Bucket + ".s3." + region + ".amazonaws.com"
}

func (s *Store) Upload(ctx context.Context, ownerHint string, f photos.File) (string, error) {
	key := photos.ObjectKey(ownerHint, f.Name)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(f.Data),
		ContentLength: aws.Int64(int64(len(f.Data))),
	}
	if f.ContentType != "" {
		input.ContentType = aws.String(f.ContentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}
