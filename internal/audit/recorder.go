// Package audit appends one activity record per mutating action. The trail
// is best-effort: a failed write never fails the domain mutation.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rohith4dev/Student-management/internal/models"
)

type activitySink interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, limit int64) ([]models.ActivityLog, error)
}

const listCap = 100

type Recorder struct {
	sink   activitySink
	logger *zap.Logger
}

func NewRecorder(sink activitySink, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{sink: sink, logger: logger}
}

// Record fills in the identifier and timestamp and appends the entry.
func (r *Recorder) Record(ctx context.Context, entry models.ActivityLog) {
	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().UTC()
	if entry.Details == nil {
		entry.Details = map[string]any{}
	}
	if err := r.sink.Insert(ctx, &entry); err != nil {
		r.logger.Warn("failed to write activity log",
			zap.String("action", entry.Action),
			zap.String("user_email", entry.UserEmail),
			zap.Error(err))
	}
}

// List returns the most recent entries, newest first, capped at 100.
func (r *Recorder) List(ctx context.Context) ([]models.ActivityLog, error) {
	return r.sink.List(ctx, listCap)
}
