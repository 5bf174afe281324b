package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"clipnest/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of *s3.Client the store uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps uploaded bytes in an S3-compatible bucket (AWS S3 or R2)
type S3Store struct {
	client        S3API
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewS3Store builds a client with static credentials and an optional custom endpoint
func NewS3Store(cfg config.S3Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("object store initialized", "backend", "s3", "bucket", cfg.BucketName, "endpoint", endpoint)

	return NewS3StoreWithClient(client, cfg.BucketName, cfg.PublicBaseURL, logger), nil
}

// NewS3StoreWithClient wraps an existing client
func NewS3StoreWithClient(client S3API, bucket, publicBaseURL string, logger *slog.Logger) *S3Store {
	return &S3Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Put uploads body under key. The locator is the public URL when a public
// base URL is configured, otherwise the bare object key.
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	s.logger.Debug("object stored", "bucket", s.bucket, "key", key, "size", size)
	return s.locatorFor(key), nil
}

// Delete removes the object; S3 treats a missing key as success
func (s *S3Store) Delete(ctx context.Context, locator string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.keyFor(locator)),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *S3Store) locatorFor(key string) string {
	if s.publicBaseURL == "" {
		return key
	}
	return s.publicBaseURL + "/" + key
}

func (s *S3Store) keyFor(locator string) string {
	if s.publicBaseURL != "" {
		if key, ok := strings.CutPrefix(locator, s.publicBaseURL+"/"); ok {
			return key
		}
	}
	return locator
}
