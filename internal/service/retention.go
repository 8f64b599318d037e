package service

import (
	"context"
	"fmt"
	"time"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/logger"
	"buurbak-availability/internal/repository"
)

type retentionService struct {
	exceptionRepo repository.ExceptionRepository
	blockedRepo   repository.BlockedPeriodRepository
	now           func() time.Time
}

func NewRetentionService(exceptionRepo repository.ExceptionRepository, blockedRepo repository.BlockedPeriodRepository) RetentionService {
	return &retentionService{exceptionRepo: exceptionRepo, blockedRepo: blockedRepo, now: time.Now}
}

func (s *retentionService) cutoff(days int) (domain.Date, error) {
	if days <= 0 {
		return domain.Date{}, fmt.Errorf("%w: retention must be at least one day, got %d", domain.ErrValidation, days)
	}
	return domain.DateOf(s.now().UTC()).AddDays(-days), nil
}

// PruneBlockedPeriods deletes periods that ended more than olderThanDays ago.
func (s *retentionService) PruneBlockedPeriods(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff, err := s.cutoff(olderThanDays)
	if err != nil {
		return 0, err
	}
	n, err := s.blockedRepo.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("Pruned blocked periods", "cutoff", cutoff, "count", n)
	return n, nil
}

func (s *retentionService) PruneExceptions(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff, err := s.cutoff(olderThanDays)
	if err != nil {
		return 0, err
	}
	n, err := s.exceptionRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("Pruned availability exceptions", "cutoff", cutoff, "count", n)
	return n, nil
}
