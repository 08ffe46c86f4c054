// Package media uploads images to object storage through pre-signed grants.
package media

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/logger"
	"github.com/bookingops/console/internal/infrastructure/telemetry"
)

// EntityUpload is the activity entity for standalone uploads
const EntityUpload = "upload"

// UploadResult is the outcome of a standalone upload
type UploadResult struct {
	URL  string   `json:"url"`
	URLs []string `json:"urls"`
}

// UploadService requests a grant and posts the file. There is no rollback:
// a grant whose POST fails is simply abandoned.
type UploadService struct {
	grants   media.GrantSource
	poster   media.ObjectPoster
	metrics  *telemetry.ConsoleMetrics
	recorder *console.Recorder
}

var _ console.Uploader = (*UploadService)(nil)

// NewUploadService creates a new UploadService
func NewUploadService(grants media.GrantSource, poster media.ObjectPoster, metrics *telemetry.ConsoleMetrics, recorder *console.Recorder) *UploadService {
	return &UploadService{grants: grants, poster: poster, metrics: metrics, recorder: recorder}
}

// Upload stores file under target and returns the field's new URL list. The
// CDN URL is appended when multiple is set and replaces the list otherwise.
// current is not modified.
func (s *UploadService) Upload(ctx context.Context, target string, file media.File, current []string, multiple bool) ([]string, error) {
	url, err := s.send(ctx, target, file)
	if err != nil {
		return nil, err
	}
	if !multiple {
		return []string{url}, nil
	}
	next := make([]string, 0, len(current)+1)
	next = append(next, current...)
	return append(next, url), nil
}

// Store uploads a file outside of any form and records it in the activity log
func (s *UploadService) Store(ctx context.Context, target string, file media.File) (*UploadResult, error) {
	url, err := s.send(ctx, target, file)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, EntityUpload, target, activity.ActionUploadImage, url)
	return &UploadResult{URL: url, URLs: []string{url}}, nil
}

func (s *UploadService) send(ctx context.Context, target string, file media.File) (url string, err error) {
	defer func() { s.metrics.RecordUpload(ctx, target, err) }()

	target = strings.TrimSpace(target)
	if target == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Upload target is required")
	}
	if file.Body == nil {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "File is required")
	}
	fileType := media.FileType(file.ContentType)
	if fileType == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "File content type is required")
	}

	log := logger.L(ctx).With(zap.String("target", target), zap.String("type", fileType))

	grant, err := s.grants.RequestGrant(ctx, media.FileUploadInput{Target: target, Type: fileType})
	if err != nil {
		log.Warn("Upload grant request failed", zap.Error(err))
		return "", err
	}
	if err := s.poster.Post(ctx, grant, file); err != nil {
		log.Warn("Upload to storage failed", zap.String("key", grant.Fields.Key), zap.Error(err))
		return "", err
	}

	log.Info("Image uploaded", zap.String("cdn_url", grant.CDNURL))
	return grant.CDNURL, nil
}
