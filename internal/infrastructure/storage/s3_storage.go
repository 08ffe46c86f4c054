// Package storage issues and uses pre-signed upload grants for S3 compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/domain/shared"
	infraconfig "github.com/bookingops/console/internal/infrastructure/config"
)

var _ media.GrantSource = (*S3GrantSource)(nil)

// S3GrantSource presigns POST uploads locally instead of asking the booking API.
// It works with any S3 compatible storage (AWS S3, MinIO, RustFS).
type S3GrantSource struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	acl               string
	cdnBaseURL        string
	presignExpiration time.Duration
	newKey            func(target, fileType string) string
	logger            *zap.Logger
}

// S3Option is a functional option for configuring S3GrantSource
type S3Option func(*S3GrantSource)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3GrantSource) {
		s.logger = logger
	}
}

// WithPresignExpiration sets how long a grant stays valid
func WithPresignExpiration(d time.Duration) S3Option {
	return func(s *S3GrantSource) {
		s.presignExpiration = d
	}
}

// WithKeyFunc replaces the object key generator
func WithKeyFunc(fn func(target, fileType string) string) S3Option {
	return func(s *S3GrantSource) {
		s.newKey = fn
	}
}

// NewS3GrantSource creates a grant source from configuration
func NewS3GrantSource(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...S3Option) (*S3GrantSource, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage access key and secret key are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := &S3GrantSource{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		acl:               cfg.ACL,
		cdnBaseURL:        strings.TrimSuffix(cfg.CDNBaseURL, "/"),
		presignExpiration: cfg.PresignExpiration,
		newKey:            objectKey,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiration == 0 {
		s.presignExpiration = 15 * time.Minute
	}
	if s.acl == "" {
		s.acl = string(types.ObjectCannedACLPublicRead)
	}
	return s, nil
}

// endpointURL adds the scheme to a bare host:port endpoint
func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// objectKey places uploads under their target: category/1b4e28ba-....png
func objectKey(target, fileType string) string {
	target = strings.Trim(strings.ToLower(target), "/")
	if target == "" {
		target = "misc"
	}
	key := target + "/" + uuid.NewString()
	if fileType != "" {
		key += "." + strings.ToLower(fileType)
	}
	return key
}

// RequestGrant presigns a POST for one new object
func (s *S3GrantSource) RequestGrant(ctx context.Context, input media.FileUploadInput) (*media.Grant, error) {
	key := s.newKey(input.Target, input.Type)
	contentType := "application/octet-stream"
	if input.Type != "" {
		contentType = "image/" + strings.ToLower(input.Type)
	}

	req, err := s.presignClient.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACL(s.acl),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = s.presignExpiration
		o.Conditions = []interface{}{
			map[string]string{"acl": s.acl},
			map[string]string{"Content-Type": contentType},
		}
	})
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeStorageFailed, "Could not sign upload", err)
	}

	s.logger.Debug("Upload grant signed",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Duration("expires_in", s.presignExpiration),
	)

	return &media.Grant{
		URL:    req.URL,
		CDNURL: s.publicURL(req.URL, key),
		Fields: media.GrantFields{
			ACL:           s.acl,
			Algorithm:     value(req.Values, "X-Amz-Algorithm"),
			Bucket:        s.bucket,
			ContentType:   contentType,
			Credential:    value(req.Values, "X-Amz-Credential"),
			Date:          value(req.Values, "X-Amz-Date"),
			Key:           key,
			Signature:     value(req.Values, "X-Amz-Signature"),
			Policy:        value(req.Values, "Policy"),
			SecurityToken: value(req.Values, "X-Amz-Security-Token"),
		},
	}, nil
}

func (s *S3GrantSource) publicURL(postURL, key string) string {
	if s.cdnBaseURL != "" {
		return s.cdnBaseURL + "/" + key
	}
	return strings.TrimSuffix(postURL, "/") + "/" + key
}

// value reads a form value ignoring key case
func value(values map[string]string, key string) string {
	if v, ok := values[key]; ok {
		return v
	}
	for k, v := range values {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *S3GrantSource) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}
