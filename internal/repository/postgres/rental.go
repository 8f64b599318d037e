package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/logger"
	"buurbak-availability/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) ListBlocking(ctx context.Context, trailerID int32, from, to domain.Date) ([]domain.Rental, error) {
	statuses := make([]string, 0, len(domain.BlockingRentalStatuses))
	for _, s := range domain.BlockingRentalStatuses {
		statuses = append(statuses, string(s))
	}

	query := `SELECT r.id, r.trailer_id, r.renter_id, r.lessor_id, COALESCE(u.name, ''), r.start_date, r.end_date, r.status
	          FROM rentals r LEFT JOIN users u ON u.id = r.renter_id
	          WHERE r.trailer_id = $1 AND r.status = ANY($2)
	            AND r.start_date::date <= $4 AND r.end_date::date >= $3
	          ORDER BY r.start_date, r.id`
	logger.DatabaseCall("rentalRepository.ListBlocking", query, "trailerID", trailerID, "from", from, "to", to)

	rows, err := r.db.QueryContext(ctx, query, trailerID, pq.Array(statuses), from.Time(), to.Time())
	if err != nil {
		logger.DatabaseResult("rentalRepository.ListBlocking", 0, err)
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(&rt.ID, &rt.TrailerID, &rt.RenterID, &rt.LessorID, &rt.RenterName, &rt.StartDate, &rt.EndDate, &rt.Status); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("rentalRepository.ListBlocking", int64(len(rentals)), nil)
	return rentals, nil
}
