package postgres

import (
	"context"
	"database/sql"
	"errors"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.TrailerRepository
	repository.WeeklyAvailabilityRepository
	repository.ExceptionRepository
	repository.BlockedPeriodRepository
	repository.RentalRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                           db,
		TrailerRepository:            NewTrailerRepository(db),
		WeeklyAvailabilityRepository: NewWeeklyAvailabilityRepository(db),
		ExceptionRepository:          NewExceptionRepository(db),
		BlockedPeriodRepository:      NewBlockedPeriodRepository(db),
		RentalRepository:             NewRentalRepository(db),
	}
}

func (s *Store) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
