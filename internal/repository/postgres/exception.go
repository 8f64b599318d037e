package postgres

import (
	"context"
	"database/sql"
	"time"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/logger"
	"buurbak-availability/internal/repository"
)

type exceptionRepository struct {
	db *sql.DB
}

func NewExceptionRepository(db *sql.DB) repository.ExceptionRepository {
	return &exceptionRepository{db: db}
}

const exceptionColumns = `id, trailer_id, date,
	morning, morning_start, morning_end,
	afternoon, afternoon_start, afternoon_end,
	evening, evening_start, evening_end,
	created_on, updated_on`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanException(row rowScanner) (*domain.AvailabilityException, error) {
	e := &domain.AvailabilityException{}
	var day time.Time
	var ms, me, as, ae, es, ee sql.NullString
	err := row.Scan(&e.ID, &e.TrailerID, &day,
		&e.Morning.Available, &ms, &me,
		&e.Afternoon.Available, &as, &ae,
		&e.Evening.Available, &es, &ee,
		&e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	e.Date = domain.DateOf(day)
	e.Morning.Start, e.Morning.End = nullString(ms), nullString(me)
	e.Afternoon.Start, e.Afternoon.End = nullString(as), nullString(ae)
	e.Evening.Start, e.Evening.End = nullString(es), nullString(ee)
	return e, nil
}

func (r *exceptionRepository) ListByTrailer(ctx context.Context, trailerID int32, from, to domain.Date) ([]domain.AvailabilityException, error) {
	query := `SELECT ` + exceptionColumns + ` FROM availability_exceptions
	          WHERE trailer_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date`
	logger.DatabaseCall("exceptionRepository.ListByTrailer", query, "trailerID", trailerID, "from", from, "to", to)

	rows, err := r.db.QueryContext(ctx, query, trailerID, from.Time(), to.Time())
	if err != nil {
		logger.DatabaseResult("exceptionRepository.ListByTrailer", 0, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.AvailabilityException
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("exceptionRepository.ListByTrailer", int64(len(out)), nil)
	return out, nil
}

func (r *exceptionRepository) GetByDate(ctx context.Context, trailerID int32, date domain.Date) (*domain.AvailabilityException, error) {
	query := `SELECT ` + exceptionColumns + ` FROM availability_exceptions WHERE trailer_id = $1 AND date = $2`
	e, err := scanException(r.db.QueryRowContext(ctx, query, trailerID, date.Time()))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *exceptionRepository) Upsert(ctx context.Context, e *domain.AvailabilityException) error {
	logger.EnterMethod("exceptionRepository.Upsert", "trailerID", e.TrailerID, "date", e.Date)

	query := `INSERT INTO availability_exceptions (trailer_id, date,
	                 morning, morning_start, morning_end,
	                 afternoon, afternoon_start, afternoon_end,
	                 evening, evening_start, evening_end,
	                 created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	          ON CONFLICT (trailer_id, date) DO UPDATE SET
	                 morning = EXCLUDED.morning, morning_start = EXCLUDED.morning_start, morning_end = EXCLUDED.morning_end,
	                 afternoon = EXCLUDED.afternoon, afternoon_start = EXCLUDED.afternoon_start, afternoon_end = EXCLUDED.afternoon_end,
	                 evening = EXCLUDED.evening, evening_start = EXCLUDED.evening_start, evening_end = EXCLUDED.evening_end,
	                 updated_on = EXCLUDED.updated_on
	          RETURNING id, created_on, updated_on`

	err := r.db.QueryRowContext(ctx, query, e.TrailerID, e.Date.Time(),
		e.Morning.Available, e.Morning.Start, e.Morning.End,
		e.Afternoon.Available, e.Afternoon.Start, e.Afternoon.End,
		e.Evening.Available, e.Evening.Start, e.Evening.End,
		time.Now(),
	).Scan(&e.ID, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		logger.ExitMethodWithError("exceptionRepository.Upsert", err, "trailerID", e.TrailerID)
		return err
	}

	logger.ExitMethod("exceptionRepository.Upsert", "exceptionID", e.ID)
	return nil
}

func (r *exceptionRepository) Delete(ctx context.Context, trailerID int32, date domain.Date) error {
	query := `DELETE FROM availability_exceptions WHERE trailer_id = $1 AND date = $2`
	res, err := r.db.ExecContext(ctx, query, trailerID, date.Time())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("exceptionRepository.Delete", n, nil, "trailerID", trailerID, "date", date)
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *exceptionRepository) DeleteBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	query := `DELETE FROM availability_exceptions WHERE date < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff.Time())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
