package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/advisor"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/observability"
)

// Adviser is the outbound advice call.
type Adviser interface {
	Advise(ctx context.Context, situation string) (*domain.Advice, error)
}

// AdvisorService requests protocol advice. Every failure collapses to a
// nil result; the cause only reaches logs and metrics.
type AdvisorService struct {
	client  Adviser
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAdvisorService creates the service.
func NewAdvisorService(client Adviser, logger *zap.Logger, metrics *observability.Metrics) *AdvisorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorService{client: client, logger: logger, metrics: metrics}
}

// GetAdvice returns structured advice for situation, or nil.
func (s *AdvisorService) GetAdvice(ctx context.Context, situation string) *domain.Advice {
	if s.client == nil {
		s.metrics.RecordAdvice("no_credential")
		s.logger.Warn("advice unavailable", zap.Error(advisor.ErrNoCredential))
		return nil
	}
	advice, err := s.client.Advise(ctx, situation)
	outcome := adviceOutcome(err)
	s.metrics.RecordAdvice(outcome)
	if err != nil {
		s.logger.Warn("advice request failed", zap.String("outcome", outcome), zap.Error(err))
		return nil
	}
	return advice
}

func adviceOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, advisor.ErrNoCredential):
		return "no_credential"
	case errors.Is(err, advisor.ErrEmptySituation):
		return "empty"
	case errors.Is(err, advisor.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}
