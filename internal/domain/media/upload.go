// Package media describes pre-signed image uploads.
package media

import (
	"context"
	"io"
	"strings"
)

// FileUploadInput asks for an upload grant. Target names what the file belongs
// to (for example "category" or "job"); Type is the file subtype such as "png".
type FileUploadInput struct {
	Target string `json:"target"`
	Type   string `json:"type"`
}

// GrantFields are the signed form fields of a pre-signed POST
type GrantFields struct {
	ACL         string `json:"acl"`
	Algorithm   string `json:"algorithm"`
	Bucket      string `json:"bucket"`
	ContentType string `json:"contentType"`
	Credential  string `json:"credential"`
	Date        string `json:"date"`
	Key         string `json:"key"`
	Signature   string `json:"signature"`
	Policy      string `json:"policy"`
	// SecurityToken is only set for temporary credentials
	SecurityToken string `json:"securityToken,omitempty"`
}

// Grant is a time-limited permission to POST one object to storage
type Grant struct {
	URL    string      `json:"url"`
	CDNURL string      `json:"cdnUrl"`
	Fields GrantFields `json:"fields"`
}

// File is an image to upload
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// GrantSource issues upload grants
type GrantSource interface {
	RequestGrant(ctx context.Context, input FileUploadInput) (*Grant, error)
}

// ObjectPoster sends a file to storage using a grant
type ObjectPoster interface {
	Post(ctx context.Context, grant *Grant, file File) error
}

// FileType returns the subtype of a MIME type: "image/png" gives "png"
func FileType(contentType string) string {
	contentType, _, _ = strings.Cut(contentType, ";")
	if i := strings.LastIndex(contentType, "/"); i >= 0 {
		return strings.TrimSpace(contentType[i+1:])
	}
	return strings.TrimSpace(contentType)
}
