package service

import (
	"context"
	"time"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/schedule"
)

// AvailabilityService answers availability questions for renters and
// manages the lessor calendar. Mutating operations take the acting session
// explicitly and require it to own the affected trailer or period.
type AvailabilityService interface {
	ResolveDayStatus(ctx context.Context, trailerID int32, date domain.Date) (schedule.DayStatus, error)
	ResolveTimeSlotAvailability(ctx context.Context, trailerID int32, date domain.Date, segment string) (*schedule.SlotVerdict, error)
	GetCalendar(ctx context.Context, trailerID int32, year int, month time.Month) ([]schedule.CalendarDay, error)
	CheckBookable(ctx context.Context, trailerID int32, start, end domain.Date) (*schedule.RangeVerdict, error)

	GetWeeklyAvailability(ctx context.Context, trailerID int32) ([]domain.WeeklyAvailability, error)
	UpdateWeeklyAvailability(ctx context.Context, session domain.Session, trailerID int32, days []domain.WeeklyAvailability) ([]domain.WeeklyAvailability, error)

	ListExceptions(ctx context.Context, trailerID int32, from, to domain.Date) ([]domain.AvailabilityException, error)
	UpsertException(ctx context.Context, session domain.Session, e *domain.AvailabilityException) error
	DeleteException(ctx context.Context, session domain.Session, trailerID int32, date domain.Date) error

	AddBlockedPeriod(ctx context.Context, session domain.Session, trailerID *int32, start, end domain.Date, reason string) (*domain.BlockedPeriod, error)
	RemoveBlockedPeriod(ctx context.Context, session domain.Session, periodID int32) error
	ListBlockedPeriods(ctx context.Context, session domain.Session, trailerID *int32) ([]domain.BlockedPeriod, error)
	// BlockSelection stores one period per contiguous run of blockable dates.
	// Either every run is stored or none is.
	BlockSelection(ctx context.Context, session domain.Session, trailerID int32, dates []domain.Date, reason string) ([]domain.BlockedPeriod, error)
	UnblockSelection(ctx context.Context, session domain.Session, trailerID int32, dates []domain.Date) ([]int32, error)
}

// RetentionService removes calendar rows that lie in the past.
type RetentionService interface {
	PruneBlockedPeriods(ctx context.Context, olderThanDays int) (int64, error)
	PruneExceptions(ctx context.Context, olderThanDays int) (int64, error)
}
