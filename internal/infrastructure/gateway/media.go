package gateway

import (
	"context"

	"github.com/bookingops/console/internal/domain/media"
)

// GrantSource asks the API for pre-signed upload grants
type GrantSource struct {
	client *Client
}

var _ media.GrantSource = (*GrantSource)(nil)

// NewGrantSource creates a GrantSource
func NewGrantSource(c *Client) *GrantSource {
	return &GrantSource{client: c}
}

// RequestGrant runs uploadImage
func (s *GrantSource) RequestGrant(ctx context.Context, input media.FileUploadInput) (*media.Grant, error) {
	const query = `mutation uploadImage($input: FileUploadInput!) {
  uploadImage(input: $input) {
    url
    cdnUrl
    fields { acl algorithm bucket contentType credential date key signature policy }
  }
}`
	return mustCall[media.Grant](ctx, s.client, "uploadImage", query, map[string]any{"input": input})
}
