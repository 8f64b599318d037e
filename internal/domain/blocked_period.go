package domain

import (
	"fmt"
	"time"
)

// BlockedPeriod marks an inclusive date range unavailable. A nil TrailerID
// applies the block to every trailer owned by UserID.
type BlockedPeriod struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"userId"`
	TrailerID *int32    `json:"trailerId,omitempty"`
	StartDate Date      `json:"startDate"`
	EndDate   Date      `json:"endDate"`
	Reason    string    `json:"reason,omitempty"`
	CreatedOn time.Time `json:"createdOn"`
}

func (p *BlockedPeriod) Validate() error {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end date are required", ErrValidation)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrValidation, p.EndDate, p.StartDate)
	}
	return nil
}

func (p *BlockedPeriod) Contains(d Date) bool {
	return d.Between(p.StartDate, p.EndDate)
}

// Intersects reports whether the period shares a day with [start, end].
func (p *BlockedPeriod) Intersects(start, end Date) bool {
	return !p.StartDate.After(end) && !p.EndDate.Before(start)
}

func (p *BlockedPeriod) AppliesTo(t *Trailer) bool {
	if p.TrailerID == nil {
		return p.UserID == t.OwnerID
	}
	return *p.TrailerID == t.ID
}
