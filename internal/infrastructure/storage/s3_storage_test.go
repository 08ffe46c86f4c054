package storage

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/infrastructure/config"
)

func TestNewS3GrantSource_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3GrantSource(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3GrantSource(ctx, &config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing keys return error", func(t *testing.T) {
		_, err := NewS3GrantSource(ctx, &config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key are required")
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewS3GrantSource(ctx, &config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"})
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
		assert.Equal(t, "public-read", s.acl)
	})
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestObjectKey(t *testing.T) {
	key := objectKey("Category", "PNG")
	assert.True(t, strings.HasPrefix(key, "category/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.NotEqual(t, key, objectKey("Category", "PNG"))

	assert.True(t, strings.HasPrefix(objectKey("", ""), "misc/"))
}

func TestS3GrantSource_RequestGrant(t *testing.T) {
	s, err := NewS3GrantSource(context.Background(), &config.StorageConfig{
		Bucket:       "uploads",
		AccessKey:    "AKIDEXAMPLE",
		SecretKey:    "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		Region:       "us-east-1",
		Endpoint:     "localhost:9000",
		UsePathStyle: true,
		CDNBaseURL:   "https://cdn.example.com/",
	},
		WithLogger(zaptest.NewLogger(t)),
		WithPresignExpiration(5*time.Minute),
		WithKeyFunc(func(target, fileType string) string { return target + "/fixed." + fileType }),
	)
	require.NoError(t, err)

	grant, err := s.RequestGrant(context.Background(), media.FileUploadInput{Target: "job", Type: "jpeg"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(grant.URL, "http://localhost:9000/uploads"), grant.URL)
	assert.Equal(t, "https://cdn.example.com/job/fixed.jpeg", grant.CDNURL)
	assert.Equal(t, "job/fixed.jpeg", grant.Fields.Key)
	assert.Equal(t, "image/jpeg", grant.Fields.ContentType)
	assert.Equal(t, "public-read", grant.Fields.ACL)
	assert.Equal(t, "uploads", grant.Fields.Bucket)
	assert.Equal(t, "AWS4-HMAC-SHA256", grant.Fields.Algorithm)
	assert.Contains(t, grant.Fields.Credential, "AKIDEXAMPLE/")
	assert.NotEmpty(t, grant.Fields.Date)
	assert.NotEmpty(t, grant.Fields.Signature)

	policy, err := base64.StdEncoding.DecodeString(grant.Fields.Policy)
	require.NoError(t, err)
	assert.Contains(t, string(policy), `"job/fixed.jpeg"`)
	assert.Contains(t, string(policy), `"acl"`)
}
