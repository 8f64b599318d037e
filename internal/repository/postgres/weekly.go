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

type weeklyAvailabilityRepository struct {
	db *sql.DB
}

func NewWeeklyAvailabilityRepository(db *sql.DB) repository.WeeklyAvailabilityRepository {
	return &weeklyAvailabilityRepository{db: db}
}

func (r *weeklyAvailabilityRepository) ListByTrailer(ctx context.Context, trailerID int32) ([]domain.WeeklyAvailability, error) {
	logger.EnterMethod("weeklyAvailabilityRepository.ListByTrailer", "trailerID", trailerID)

	query := `SELECT id, trailer_id, day_of_week, available,
	                 time_slot1_start, time_slot1_end, time_slot2_start, time_slot2_end, time_slot3_start, time_slot3_end,
	                 updated_on
	          FROM weekly_availability WHERE trailer_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, trailerID)
	if err != nil {
		logger.ExitMethodWithError("weeklyAvailabilityRepository.ListByTrailer", err, "trailerID", trailerID)
		return nil, err
	}
	defer rows.Close()

	var days []domain.WeeklyAvailability
	for rows.Next() {
		var w domain.WeeklyAvailability
		var slots [domain.MaxTimeSlots * 2]sql.NullString
		if err := rows.Scan(&w.ID, &w.TrailerID, &w.Day, &w.Available,
			&slots[0], &slots[1], &slots[2], &slots[3], &slots[4], &slots[5], &w.UpdatedOn); err != nil {
			return nil, err
		}
		for i := 0; i < domain.MaxTimeSlots; i++ {
			start, end := slots[i*2], slots[i*2+1]
			if start.Valid && end.Valid && start.String != "" && end.String != "" {
				w.Slots = append(w.Slots, domain.TimeSlot{Start: start.String, End: end.String})
			}
		}
		days = append(days, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("weeklyAvailabilityRepository.ListByTrailer", "trailerID", trailerID, "count", len(days))
	return days, nil
}

func (r *weeklyAvailabilityRepository) Upsert(ctx context.Context, trailerID int32, days []domain.WeeklyAvailability) error {
	logger.EnterMethod("weeklyAvailabilityRepository.Upsert", "trailerID", trailerID, "days", len(days))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO weekly_availability (trailer_id, day_of_week, available,
	                 time_slot1_start, time_slot1_end, time_slot2_start, time_slot2_end, time_slot3_start, time_slot3_end, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          ON CONFLICT (trailer_id, day_of_week) DO UPDATE SET
	                 available = EXCLUDED.available,
	                 time_slot1_start = EXCLUDED.time_slot1_start, time_slot1_end = EXCLUDED.time_slot1_end,
	                 time_slot2_start = EXCLUDED.time_slot2_start, time_slot2_end = EXCLUDED.time_slot2_end,
	                 time_slot3_start = EXCLUDED.time_slot3_start, time_slot3_end = EXCLUDED.time_slot3_end,
	                 updated_on = EXCLUDED.updated_on`

	now := time.Now()
	for _, d := range days {
		args := []interface{}{trailerID, d.Day, d.Available}
		args = append(args, slotArgs(d)...)
		args = append(args, now)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			logger.ExitMethodWithError("weeklyAvailabilityRepository.Upsert", err, "trailerID", trailerID, "day", d.Day)
			return fmt.Errorf("upsert %s: %w", d.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("weeklyAvailabilityRepository.Upsert", err, "trailerID", trailerID)
		return err
	}

	logger.ExitMethod("weeklyAvailabilityRepository.Upsert", "trailerID", trailerID)
	return nil
}

// slotArgs flattens the slots into the six nullable columns. Closed days
// store no slots.
func slotArgs(d domain.WeeklyAvailability) []interface{} {
	args := make([]interface{}, domain.MaxTimeSlots*2)
	if !d.Available {
		return args
	}
	for i, s := range d.Slots {
		if i >= domain.MaxTimeSlots {
			break
		}
		args[i*2] = s.Start
		args[i*2+1] = s.End
	}
	return args
}
