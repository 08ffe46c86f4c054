package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/domain/shared"
)

// PresignedPoster sends files to object storage with a pre-signed POST grant
type PresignedPoster struct {
	client  *retryablehttp.Client
	maxSize int64
}

var _ media.ObjectPoster = (*PresignedPoster)(nil)

// PosterOption configures a PresignedPoster
type PosterOption func(*PresignedPoster)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) PosterOption {
	return func(p *PresignedPoster) { p.client.HTTPClient = h }
}

// WithRetries sets how many times a failed POST is retried
func WithRetries(n int, wait time.Duration) PosterOption {
	return func(p *PresignedPoster) {
		p.client.RetryMax = n
		p.client.RetryWaitMin = wait
		p.client.RetryWaitMax = 4 * wait
	}
}

// WithMaxSize rejects files larger than n bytes
func WithMaxSize(n int64) PosterOption {
	return func(p *PresignedPoster) { p.maxSize = n }
}

// WithPosterLogger logs retries through l
func WithPosterLogger(l *zap.Logger) PosterOption {
	return func(p *PresignedPoster) { p.client.Logger = leveledLogger{l.Named("storage").Sugar()} }
}

// NewPresignedPoster creates a poster retrying twice on transport errors and 5xx
func NewPresignedPoster(opts ...PosterOption) *PresignedPoster {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = time.Second

	p := &PresignedPoster{client: client, maxSize: 10 << 20}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Post uploads file as a multipart form. The signed fields come first in the
// order storage expects; the file part is always last.
func (p *PresignedPoster) Post(ctx context.Context, grant *media.Grant, file media.File) error {
	if grant == nil || grant.URL == "" {
		return shared.NewDomainError(shared.CodeStorageFailed, "Upload grant has no URL")
	}

	body, contentType, err := p.encode(grant, file)
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, grant.URL, body)
	if err != nil {
		return shared.WrapDomainError(shared.CodeStorageFailed, "Invalid upload URL", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return shared.WrapDomainError(shared.CodeStorageFailed, "Upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return shared.Errorf(shared.CodeStorageFailed, "Upload rejected with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (p *PresignedPoster) encode(grant *media.Grant, file media.File) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	contentType := grant.Fields.ContentType
	if contentType == "" {
		contentType = file.ContentType
	}
	fields := [][2]string{
		{"acl", grant.Fields.ACL},
		{"X-Amz-Algorithm", grant.Fields.Algorithm},
		{"Content-Type", contentType},
		{"X-Amz-Credential", grant.Fields.Credential},
		{"X-Amz-Date", grant.Fields.Date},
		{"key", grant.Fields.Key},
		{"X-Amz-Signature", grant.Fields.Signature},
		{"policy", grant.Fields.Policy},
	}
	if grant.Fields.SecurityToken != "" {
		fields = append(fields, [2]string{"X-Amz-Security-Token", grant.Fields.SecurityToken})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", file.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}

	n, err := io.Copy(part, io.LimitReader(file.Body, p.maxSize+1))
	if err != nil {
		return nil, "", shared.WrapDomainError(shared.CodeInvalidInput, "Could not read file", err)
	}
	if n > p.maxSize {
		return nil, "", shared.Errorf(shared.CodeInvalidInput, "File exceeds %d bytes", p.maxSize)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// leveledLogger adapts zap to retryablehttp.LeveledLogger
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...any)  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
