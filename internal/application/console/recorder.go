package console

import (
	"context"

	"go.uber.org/zap"

	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/infrastructure/logger"
)

// Recorder writes activity entries for the mutations operators perform.
// Recording failures are logged and never returned.
type Recorder struct {
	repo activity.Repository
}

// NewRecorder creates a recorder; a nil repository disables recording
func NewRecorder(repo activity.Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record stores one entry attributed to the user and request on ctx
func (r *Recorder) Record(ctx context.Context, entity, entityID string, action activity.Action, detail string) {
	if r == nil || r.repo == nil {
		return
	}
	e := &activity.Entry{
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		UserID:    logger.GetUserID(ctx),
		RequestID: logger.GetRequestID(ctx),
		Detail:    detail,
	}
	if err := r.repo.Record(ctx, e); err != nil {
		logger.L(ctx).Warn("Failed to record activity",
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}
