package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/logger"
	"buurbak-availability/internal/repository"
)

type blockedPeriodRepository struct {
	db *sql.DB
}

func NewBlockedPeriodRepository(db *sql.DB) repository.BlockedPeriodRepository {
	return &blockedPeriodRepository{db: db}
}

const blockedPeriodColumns = `id, user_id, trailer_id, start_date, end_date, COALESCE(reason, ''), created_on`

func scanBlockedPeriod(row rowScanner) (*domain.BlockedPeriod, error) {
	p := &domain.BlockedPeriod{}
	var trailerID sql.NullInt32
	var start, end time.Time
	if err := row.Scan(&p.ID, &p.UserID, &trailerID, &start, &end, &p.Reason, &p.CreatedOn); err != nil {
		return nil, err
	}
	if trailerID.Valid {
		id := trailerID.Int32
		p.TrailerID = &id
	}
	p.StartDate = domain.DateOf(start)
	p.EndDate = domain.DateOf(end)
	return p, nil
}

const insertBlockedPeriod = `INSERT INTO blocked_periods (user_id, trailer_id, start_date, end_date, reason, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_on`

func (r *blockedPeriodRepository) Create(ctx context.Context, p *domain.BlockedPeriod) error {
	logger.EnterMethod("blockedPeriodRepository.Create", "userID", p.UserID, "start", p.StartDate, "end", p.EndDate)

	err := r.db.QueryRowContext(ctx, insertBlockedPeriod, p.UserID, p.TrailerID, p.StartDate.Time(), p.EndDate.Time(), p.Reason, time.Now()).
		Scan(&p.ID, &p.CreatedOn)
	if err != nil {
		logger.ExitMethodWithError("blockedPeriodRepository.Create", err, "userID", p.UserID)
		return err
	}

	logger.ExitMethod("blockedPeriodRepository.Create", "periodID", p.ID)
	return nil
}

func (r *blockedPeriodRepository) CreateMany(ctx context.Context, periods []*domain.BlockedPeriod) error {
	logger.EnterMethod("blockedPeriodRepository.CreateMany", "count", len(periods))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, p := range periods {
		err := tx.QueryRowContext(ctx, insertBlockedPeriod, p.UserID, p.TrailerID, p.StartDate.Time(), p.EndDate.Time(), p.Reason, now).
			Scan(&p.ID, &p.CreatedOn)
		if err != nil {
			logger.ExitMethodWithError("blockedPeriodRepository.CreateMany", err, "userID", p.UserID, "start", p.StartDate)
			return fmt.Errorf("insert %s..%s: %w", p.StartDate, p.EndDate, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("blockedPeriodRepository.CreateMany", err)
		return err
	}

	logger.ExitMethod("blockedPeriodRepository.CreateMany", "count", len(periods))
	return nil
}

func (r *blockedPeriodRepository) GetByID(ctx context.Context, id int32) (*domain.BlockedPeriod, error) {
	query := `SELECT ` + blockedPeriodColumns + ` FROM blocked_periods WHERE id = $1`
	p, err := scanBlockedPeriod(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *blockedPeriodRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM blocked_periods WHERE id = $1`
	logger.DatabaseCall("blockedPeriodRepository.Delete", query, "periodID", id)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.DatabaseResult("blockedPeriodRepository.Delete", 0, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("blockedPeriodRepository.Delete", n, nil)
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *blockedPeriodRepository) ListForTrailer(ctx context.Context, trailerID, ownerID int32, from, to domain.Date) ([]domain.BlockedPeriod, error) {
	query := `SELECT ` + blockedPeriodColumns + ` FROM blocked_periods
	          WHERE (trailer_id = $1 OR (trailer_id IS NULL AND user_id = $2))
	            AND start_date <= $4 AND end_date >= $3
	          ORDER BY start_date, id`
	return r.list(ctx, "blockedPeriodRepository.ListForTrailer", query, trailerID, ownerID, from.Time(), to.Time())
}

func (r *blockedPeriodRepository) ListByUser(ctx context.Context, userID int32, trailerID *int32) ([]domain.BlockedPeriod, error) {
	if trailerID == nil {
		query := `SELECT ` + blockedPeriodColumns + ` FROM blocked_periods WHERE user_id = $1 ORDER BY start_date, id`
		return r.list(ctx, "blockedPeriodRepository.ListByUser", query, userID)
	}
	query := `SELECT ` + blockedPeriodColumns + ` FROM blocked_periods
	          WHERE user_id = $1 AND (trailer_id = $2 OR trailer_id IS NULL)
	          ORDER BY start_date, id`
	return r.list(ctx, "blockedPeriodRepository.ListByUser", query, userID, *trailerID)
}

func (r *blockedPeriodRepository) DeleteEndedBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	query := `DELETE FROM blocked_periods WHERE end_date < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff.Time())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *blockedPeriodRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]domain.BlockedPeriod, error) {
	logger.DatabaseCall(op, query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult(op, 0, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.BlockedPeriod
	for rows.Next() {
		p, err := scanBlockedPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult(op, int64(len(out)), nil)
	return out, nil
}
