// Package storage archives rendered invoices in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/theplanbeta/invoice/internal/domain/printing"
	"github.com/theplanbeta/invoice/internal/infrastructure/config"
	infra "github.com/theplanbeta/invoice/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// Ensure S3Storage implements DocumentStorage
var _ infra.DocumentStorage = (*S3Storage)(nil)

// S3Storage keeps invoices in a bucket under {prefix}/{year}/{month}/{filename}.
// It works with AWS S3 and compatible services such as MinIO.
type S3Storage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	prefix            string
	presignExpiration time.Duration
	now               func() time.Time
	logger            *zap.Logger
}

// S3StorageOption is a functional option for configuring S3Storage
type S3StorageOption func(*S3Storage)

// WithLogger sets a custom logger for S3Storage
func WithLogger(logger *zap.Logger) S3StorageOption {
	return func(s *S3Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now for undated documents and cleanup cutoffs
func WithClock(now func() time.Time) S3StorageOption {
	return func(s *S3Storage) { s.now = now }
}

// NewS3Storage creates an archive from configuration. The endpoint is
// optional; without it the AWS endpoint for the region is used.
func NewS3Storage(cfg *config.ArchiveS3Config, opts ...S3StorageOption) (*S3Storage, error) {
	if cfg == nil {
		return nil, errors.New("archive storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("archive access key and secret key are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		// Compatible services reject the default streaming checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := &S3Storage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		prefix:            strings.Trim(cfg.Prefix, "/"),
		presignExpiration: cfg.PresignExpiration,
		now:               time.Now,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiration == 0 {
		s.presignExpiration = 15 * time.Minute
	}
	return s, nil
}

// Bucket returns the bucket name
func (s *S3Storage) Bucket() string {
	return s.bucket
}

// key maps a relative archive path to its object key
func (s *S3Storage) key(rel string) string {
	if s.prefix == "" {
		return rel
	}
	return s.prefix + "/" + rel
}

func validPath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return false
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// Store uploads a document and returns its path relative to the prefix
func (s *S3Storage) Store(ctx context.Context, req *infra.StoreRequest) (*infra.StoreResult, error) {
	if req == nil {
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "store request is nil", nil)
	}
	if !infra.IsPlainFilename(req.Filename) {
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "invalid filename: "+req.Filename, nil)
	}
	if len(req.Data) == 0 {
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "document data is empty", nil)
	}

	issued := req.IssuedAt
	if issued.IsZero() {
		issued = s.now()
	}
	rel := fmt.Sprintf("%d/%02d/%s", issued.Year(), issued.Month(), req.Filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(rel)),
		Body:   bytes.NewReader(req.Data),
	}
	if f, ok := formatOf(req.Filename); ok {
		input.ContentType = aws.String(f.ContentType())
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to upload document", err)
	}

	s.logger.Info("document stored",
		zap.String("bucket", s.bucket),
		zap.String("key", s.key(rel)),
		zap.Int("size", len(req.Data)))

	return &infra.StoreResult{Path: rel, Size: int64(len(req.Data))}, nil
}

// Get downloads a document by its relative path
func (s *S3Storage) Get(ctx context.Context, rel string) (io.ReadCloser, error) {
	if !validPath(rel) {
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "invalid path", nil)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(rel)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "document not found", err)
		}
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to download document", err)
	}
	return out.Body, nil
}

// Delete removes a document. S3 treats deleting a missing key as success.
func (s *S3Storage) Delete(ctx context.Context, rel string) error {
	if !validPath(rel) {
		return infra.NewRenderError(infra.ErrCodeStorageFailed, "invalid path", nil)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(rel)),
	})
	if err != nil {
		return infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to delete document", err)
	}
	s.logger.Info("document deleted", zap.String("key", s.key(rel)))
	return nil
}

// CleanupOlderThan deletes archived documents last modified before now-age
func (s *S3Storage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	deleted := 0
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to list archive", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if _, ok := formatOf(key); !ok || obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			}); err != nil {
				s.logger.Warn("failed to delete old document", zap.String("key", key), zap.Error(err))
				continue
			}
			deleted++
			s.logger.Debug("deleted old document", zap.String("key", key))
		}
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, nil
}

// DownloadURL returns a presigned GET URL for an archived document
func (s *S3Storage) DownloadURL(ctx context.Context, rel string, expiresIn time.Duration) (string, time.Time, error) {
	if !validPath(rel) {
		return "", time.Time{}, infra.NewRenderError(infra.ErrCodeStorageFailed, "invalid path", nil)
	}
	if expiresIn <= 0 {
		expiresIn = s.presignExpiration
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(rel)),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, s.now().Add(expiresIn), nil
}

// formatOf maps an archived file name to its output format
func formatOf(name string) (printing.Format, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return printing.FormatPDF, true
	case ".png":
		return printing.FormatPNG, true
	case ".jpg":
		return printing.FormatJPEG, true
	case ".webp":
		return printing.FormatWebP, true
	}
	return "", false
}
