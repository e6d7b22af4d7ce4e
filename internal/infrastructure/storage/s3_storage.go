// Package storage provides object storage for organization logos and archived
// authority responses.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	apporganization "github.com/einvoice/backend/internal/application/organization"
	"github.com/einvoice/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultEndpoint      = "http://localhost:9000"
	defaultRegion        = "us-east-1"
	defaultPresignExpiry = 15 * time.Minute
)

var errEmptyKey = errors.New("storage key is required")

var _ apporganization.ObjectUploader = (*S3ObjectStorage)(nil)

// S3ObjectStorage talks to any S3-compatible backend (AWS S3, MinIO, RustFS)
type S3ObjectStorage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	endpoint          string
	bucket            string
	usePathStyle      bool
	presignExpiration time.Duration
	logger            *zap.Logger
}

type S3ObjectStorageOption func(*S3ObjectStorage)

func WithLogger(logger *zap.Logger) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) { s.logger = logger.Named("s3") }
}

func NewS3ObjectStorage(cfg *config.StorageConfig, opts ...S3ObjectStorageOption) (*S3ObjectStorage, error) {
	if err := checkStorageConfig(cfg); err != nil {
		return nil, err
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	s := &S3ObjectStorage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		endpoint:          endpoint,
		bucket:            cfg.Bucket,
		usePathStyle:      cfg.UsePathStyle,
		presignExpiration: cfg.PresignExpiry,
		logger:            zap.NewNop(),
	}
	if s.presignExpiration <= 0 {
		s.presignExpiration = defaultPresignExpiry
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func checkStorageConfig(cfg *config.StorageConfig) error {
	switch {
	case cfg == nil:
		return errors.New("storage configuration is required")
	case cfg.Bucket == "":
		return errors.New("storage bucket is required")
	case cfg.AccessKeyID == "":
		return errors.New("storage access key is required")
	case cfg.SecretAccessKey == "":
		return errors.New("storage secret key is required")
	}
	return nil
}

// normalizeEndpoint defaults the scheme to https and strips trailing slashes
func normalizeEndpoint(raw string) (string, error) {
	if raw == "" {
		return defaultEndpoint, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid storage endpoint scheme %q", u.Scheme)
	}
	return strings.TrimRight(raw, "/"), nil
}

// EnsureBucket creates the bucket when HeadBucket reports it missing
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Storage bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Upload writes data under storageKey, replacing any existing object
func (s *S3ObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(storageKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", storageKey, err)
	}
	s.logger.Debug("Object stored", zap.String("key", storageKey), zap.Int("bytes", len(data)))
	return nil
}

// ObjectURL returns the unsigned URL of an object. Logos are served this way,
// so the bucket must allow public reads.
func (s *S3ObjectStorage) ObjectURL(storageKey string) string {
	key := escapeKey(storageKey)
	if !s.usePathStyle {
		if u, err := url.Parse(s.endpoint); err == nil {
			u.Host = s.bucket + "." + u.Host
			return u.String() + "/" + key
		}
	}
	return s.endpoint + "/" + s.bucket + "/" + key
}

// GenerateDownloadURL presigns a GET for storageKey. A non-positive expiresIn
// uses the configured expiry.
func (s *S3ObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = s.presignExpiration
	}
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign %s: %w", storageKey, err)
	}
	return req.URL, time.Now().Add(expiresIn), nil
}

func (s *S3ObjectStorage) Bucket() string {
	return s.bucket
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
