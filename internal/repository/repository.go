package repository

import (
	"context"

	"buurbak-availability/internal/domain"
)

type TrailerRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Trailer, error)
}

type WeeklyAvailabilityRepository interface {
	ListByTrailer(ctx context.Context, trailerID int32) ([]domain.WeeklyAvailability, error)
	// Upsert writes every day in one transaction.
	Upsert(ctx context.Context, trailerID int32, days []domain.WeeklyAvailability) error
}

type ExceptionRepository interface {
	ListByTrailer(ctx context.Context, trailerID int32, from, to domain.Date) ([]domain.AvailabilityException, error)
	GetByDate(ctx context.Context, trailerID int32, date domain.Date) (*domain.AvailabilityException, error)
	Upsert(ctx context.Context, e *domain.AvailabilityException) error
	Delete(ctx context.Context, trailerID int32, date domain.Date) error
	DeleteBefore(ctx context.Context, cutoff domain.Date) (int64, error)
}

type BlockedPeriodRepository interface {
	Create(ctx context.Context, p *domain.BlockedPeriod) error
	// CreateMany inserts all periods in one transaction; none are stored on error.
	CreateMany(ctx context.Context, periods []*domain.BlockedPeriod) error
	GetByID(ctx context.Context, id int32) (*domain.BlockedPeriod, error)
	Delete(ctx context.Context, id int32) error
	// ListForTrailer returns periods scoped to the trailer plus the owner's
	// lessor-wide periods that intersect [from, to].
	ListForTrailer(ctx context.Context, trailerID, ownerID int32, from, to domain.Date) ([]domain.BlockedPeriod, error)
	ListByUser(ctx context.Context, userID int32, trailerID *int32) ([]domain.BlockedPeriod, error)
	DeleteEndedBefore(ctx context.Context, cutoff domain.Date) (int64, error)
}

type RentalRepository interface {
	// ListBlocking returns CONFIRMED and ACTIVE rentals of the trailer that
	// intersect [from, to].
	ListBlocking(ctx context.Context, trailerID int32, from, to domain.Date) ([]domain.Rental, error)
}
