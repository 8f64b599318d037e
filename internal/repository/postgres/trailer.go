package postgres

import (
	"context"
	"database/sql"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/logger"
	"buurbak-availability/internal/repository"
)

type trailerRepository struct {
	db *sql.DB
}

func NewTrailerRepository(db *sql.DB) repository.TrailerRepository {
	return &trailerRepository{db: db}
}

func (r *trailerRepository) GetByID(ctx context.Context, id int32) (*domain.Trailer, error) {
	query := `SELECT id, owner_id, name FROM trailers WHERE id = $1`
	logger.DatabaseCall("trailerRepository.GetByID", query, "trailerID", id)

	t := &domain.Trailer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.OwnerID, &t.Name)
	if err != nil {
		logger.DatabaseResult("trailerRepository.GetByID", 0, err, "trailerID", id)
		return nil, notFound(err)
	}
	logger.DatabaseResult("trailerRepository.GetByID", 1, nil, "trailerID", id)
	return t, nil
}
