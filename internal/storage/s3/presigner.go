// Package s3 generates presigned URLs against an S3-compatible object store
// (MinIO in the stock deployment). File bytes never pass through this
// service; clients PUT and GET directly against the store with these URLs.
package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/singulaarityy/Ferrum-Store/internal/domain"
)

// Config holds connection settings for the object store.
type Config struct {
	Endpoint  string // custom endpoint for MinIO/localstack; empty = AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Presigner issues presigned PUT and GET URLs for one bucket.
type Presigner struct {
	presign *s3.PresignClient
	bucket  string
}

// NewPresigner builds an S3 client for the configured endpoint and wraps it
// in a presign client.
func NewPresigner(ctx context.Context, cfg Config) (*Presigner, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store: bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and localstack want path-style addressing.
			o.UsePathStyle = true
		}
	})

	return &Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// PresignPut returns a time-limited URL for uploading an object.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := p.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, domain.ErrUnavailable)
	}
	return req.URL, nil
}

// PresignGet returns a time-limited URL for downloading an object.
func (p *Presigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, domain.ErrUnavailable)
	}
	return req.URL, nil
}
