package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// ActivityService records the system log.
type ActivityService struct {
	repo   repository.ActivityRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewActivityService creates the service.
func NewActivityService(repo repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger, now: time.Now}
}

// Record appends an entry attributed to the actor in ctx. Failures are
// logged only.
func (s *ActivityService) Record(ctx context.Context, action domain.ActivityAction, target, details string) {
	if s == nil || s.repo == nil {
		return
	}
	entry := domain.ActivityEntry{
		ID:        "L-" + uuid.NewString()[:8],
		Action:    action,
		Target:    target,
		Actor:     ActorFrom(ctx),
		Timestamp: s.now().UTC(),
		Details:   details,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Warn("activity append failed", zap.String("action", string(action)), zap.Error(err))
	}
}

// List returns newest entries first.
func (s *ActivityService) List(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, mapStoreError(err, nil)
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	return entries, nil
}
